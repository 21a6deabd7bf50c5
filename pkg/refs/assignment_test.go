package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStoreWithImages(t *testing.T) (*Store, string, string, string) {
	t.Helper()
	s := NewStore()
	p := s.SetPrimary("AI Avatar", []byte("p-data"), "image/png")
	c := s.AddCanon("canon.png", []byte("c-data"), "image/png")
	l := s.AddLocal("drop.jpg", []byte("l-data"), "image/jpeg")
	return s, p.ID, c.ID, l.ID
}

func TestAssignment_MutualExclusion(t *testing.T) {
	_, pID, cID, _ := newStoreWithImages(t)

	a := NewAssignment()

	t.Run("コンテンツとスタイルが同じ画像を指すことはない", func(t *testing.T) {
		a.SetContent(pID)
		a.SetStyle(pID)
		assert.Equal(t, pID, a.StyleRef())
		assert.Empty(t, a.ContentRef(), "同じIDをスタイルに設定したらコンテンツは外れる")

		a.SetContent(pID)
		assert.Equal(t, pID, a.ContentRef())
		assert.Empty(t, a.StyleRef())
	})

	t.Run("2回選択すると解除される", func(t *testing.T) {
		a.SetContent(cID)
		a.SetContent(cID)
		assert.Empty(t, a.ContentRef())

		a.SetStyle(cID)
		a.SetStyle(cID)
		assert.Empty(t, a.StyleRef())
	})

	t.Run("任意の呼び出し列で不変条件が保たれる", func(t *testing.T) {
		ids := []string{pID, cID, pID, pID, cID}
		for _, id := range ids {
			a.SetContent(id)
			if a.ContentRef() != "" && a.ContentRef() == a.StyleRef() {
				t.Fatalf("contentRef == styleRef == %s", a.ContentRef())
			}
			a.SetStyle(id)
			if a.StyleRef() != "" && a.ContentRef() == a.StyleRef() {
				t.Fatalf("contentRef == styleRef == %s", a.StyleRef())
			}
		}
	})
}

func TestAssignment_AutoSelectPrimary(t *testing.T) {
	t.Run("未選択ならプライマリがデフォルトになる", func(t *testing.T) {
		s := NewStore()
		a := NewAssignment()
		p := s.SetPrimary("AI Avatar", []byte("v1"), "image/png")

		a.RepairAfterPrimaryChange(s)
		assert.Equal(t, p.ID, a.ContentRef())
	})

	t.Run("ユーザーの有効な選択は上書きしない", func(t *testing.T) {
		s := NewStore()
		a := NewAssignment()
		s.SetPrimary("AI Avatar", []byte("v1"), "image/png")
		c := s.AddCanon("canon.png", []byte("c"), "image/png")

		a.SetContent(c.ID)
		s.SetPrimary("AI Avatar", []byte("v2"), "image/png")
		a.RepairAfterPrimaryChange(s)

		assert.Equal(t, c.ID, a.ContentRef(), "明示的な選択が維持されること")
	})

	t.Run("選択済み画像が消えていたら新プライマリに移る", func(t *testing.T) {
		s := NewStore()
		a := NewAssignment()
		l := s.AddLocal("drop.jpg", []byte("l"), "image/jpeg")
		a.SetContent(l.ID)

		require.True(t, s.Remove(l.ID))
		a.OnRemoved(l.ID)

		p := s.SetPrimary("AI Avatar", []byte("v2"), "image/png")
		a.RepairAfterPrimaryChange(s)
		assert.Equal(t, p.ID, a.ContentRef())
	})
}

func TestAssignment_RemoveClearsSlots(t *testing.T) {
	s, pID, cID, lID := newStoreWithImages(t)
	a := NewAssignment()
	a.SetContent(cID)
	a.SetStyle(lID)

	require.True(t, s.Remove(lID))
	a.OnRemoved(lID)
	assert.Empty(t, a.StyleRef())
	assert.Equal(t, cID, a.ContentRef())

	require.True(t, s.Remove(cID))
	a.OnRemoved(cID)
	assert.Empty(t, a.ContentRef())

	// プライマリはまだ残っているので解決は成功する
	a.SetContent(pID)
	img, ok := a.ResolveContent(s)
	require.True(t, ok)
	assert.Equal(t, pID, img.ID)
}

func TestStore_Ownership(t *testing.T) {
	s, pID, cID, lID := newStoreWithImages(t)

	t.Run("表示順はプライマリ、カノン、ローカル", func(t *testing.T) {
		all := s.All()
		require.Len(t, all, 3)
		assert.Equal(t, []string{pID, cID, lID}, []string{all[0].ID, all[1].ID, all[2].ID})
	})

	t.Run("Lookupは防御的コピーを返す", func(t *testing.T) {
		img, ok := s.Lookup(cID)
		require.True(t, ok)
		img.Data[0] = 'X'

		again, _ := s.Lookup(cID)
		assert.Equal(t, byte('c'), again.Data[0])
	})

	t.Run("存在しないIDの削除はfalse", func(t *testing.T) {
		assert.False(t, s.Remove("nope"))
	})
}
