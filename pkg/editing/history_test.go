package editing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stateWithRotation(deg int) EditState {
	s := Identity()
	s.Rotation = deg
	return s
}

func TestHistory_CommitUndoRedo(t *testing.T) {
	h := NewHistory()
	assert.True(t, h.Current().IsIdentity())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	first := stateWithRotation(90)
	second := stateWithRotation(180)
	h.Commit(first)
	h.Commit(second)
	assert.Equal(t, second, h.Current())

	t.Run("k回のアンドゥでk個前の状態に戻る", func(t *testing.T) {
		got, ok := h.Undo()
		require.True(t, ok)
		assert.Equal(t, first, got)

		got, ok = h.Undo()
		require.True(t, ok)
		assert.True(t, got.IsIdentity())
	})

	t.Run("先頭でのアンドゥは何もしない", func(t *testing.T) {
		got, ok := h.Undo()
		assert.False(t, ok)
		assert.True(t, got.IsIdentity())
	})

	t.Run("k回のリドゥで元に戻る", func(t *testing.T) {
		got, ok := h.Redo()
		require.True(t, ok)
		assert.Equal(t, first, got)

		got, ok = h.Redo()
		require.True(t, ok)
		assert.Equal(t, second, got)
	})

	t.Run("末尾でのリドゥは何もしない", func(t *testing.T) {
		got, ok := h.Redo()
		assert.False(t, ok)
		assert.Equal(t, second, got)
	})
}

func TestHistory_CommitTruncatesRedoBranch(t *testing.T) {
	h := NewHistory()
	h.Commit(stateWithRotation(90))
	h.Commit(stateWithRotation(180))
	_, ok := h.Undo()
	require.True(t, ok)

	branch := stateWithRotation(270)
	h.Commit(branch)

	assert.Equal(t, branch, h.Current())
	assert.False(t, h.CanRedo(), "コミットはリドゥ分岐を破棄すること")
	assert.Equal(t, 3, h.Len())
}

func TestHistory_CommitSameStateIsNoop(t *testing.T) {
	h := NewHistory()
	state := stateWithRotation(90)
	h.Commit(state)
	h.Commit(state)
	assert.Equal(t, 2, h.Len())
}

func TestHistory_Reset(t *testing.T) {
	h := NewHistory()
	h.Commit(stateWithRotation(90))

	got := h.Reset()
	assert.True(t, got.IsIdentity())
	assert.True(t, h.CanUndo(), "リセットはコミットとして積まれアンドゥで戻れること")

	before, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, stateWithRotation(90), before)

	t.Run("無変換状態でのリセットは履歴を変えない", func(t *testing.T) {
		fresh := NewHistory()
		fresh.Reset()
		assert.Equal(t, 1, fresh.Len())
	})
}
