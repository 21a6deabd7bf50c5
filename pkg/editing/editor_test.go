package editing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditor_ApplyDoesNotCommit(t *testing.T) {
	e := NewEditor()

	live := stateWithRotation(90)
	e.Apply(live)
	assert.Equal(t, live, e.Live())
	assert.False(t, e.CanUndo(), "Applyだけでは履歴に積まれないこと")

	e.Commit()
	assert.True(t, e.CanUndo())
}

func TestEditor_UndoSyncsLiveState(t *testing.T) {
	e := NewEditor()
	e.Apply(stateWithRotation(90))
	e.Commit()
	e.Apply(stateWithRotation(180))
	e.Commit()

	state, ok := e.Undo()
	require.True(t, ok)
	assert.Equal(t, stateWithRotation(90), state)
	assert.Equal(t, stateWithRotation(90), e.Live())

	state, ok = e.Redo()
	require.True(t, ok)
	assert.Equal(t, stateWithRotation(180), state)
	assert.Equal(t, stateWithRotation(180), e.Live())
}

func TestEditor_UncommittedLiveIsDiscardedByUndo(t *testing.T) {
	e := NewEditor()
	e.Apply(stateWithRotation(90))
	e.Commit()
	e.Apply(stateWithRotation(270)) // 未コミットのプレビュー

	state, ok := e.Undo()
	require.True(t, ok)
	assert.True(t, state.IsIdentity())
	assert.True(t, e.Live().IsIdentity())
}

func TestEditor_ConcurrentScrubbing(t *testing.T) {
	// スライダーのスクラブ中は Apply とコミット系の操作が別ゴルーチンから
	// 重なる。-race 付きで競合が出ないことを確認する。
	e := NewEditor()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch g {
				case 0:
					e.Apply(stateWithRotation((i % 4) * 90))
				case 1:
					e.Commit()
				case 2:
					e.Undo()
					e.CanUndo()
				case 3:
					e.Redo()
					e.Live()
				}
			}
		}(g)
	}
	wg.Wait()

	// 最終状態は履歴上のいずれかの値と一致していればよい
	assert.NotPanics(t, func() { e.Commit() })
}

func TestEditor_Reset(t *testing.T) {
	e := NewEditor()
	e.Apply(stateWithRotation(45))
	e.Commit()

	state := e.Reset()
	assert.True(t, state.IsIdentity())
	assert.True(t, e.Live().IsIdentity())
	assert.True(t, e.CanUndo(), "リセット前の状態にアンドゥで戻れること")
}
