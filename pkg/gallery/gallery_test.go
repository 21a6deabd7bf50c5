package gallery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shouni/go-persona-studio/pkg/domain"
)

func newTestGallery() *Gallery {
	g := New()
	// 作成日時を決定的にする
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	g.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	return g
}

func TestGallery_IDsAreMonotonicAndPrefixed(t *testing.T) {
	g := newTestGallery()

	img1, err := g.Add(domain.AssetImage, []byte("a"), "image/jpeg", "p1")
	require.NoError(t, err)
	vid, err := g.Add(domain.AssetVideo, []byte("b"), "video/mp4", "p2")
	require.NoError(t, err)
	img2, err := g.Add(domain.AssetImage, []byte("c"), "image/jpeg", "p3")
	require.NoError(t, err)

	assert.Equal(t, "img-1", img1.ID)
	assert.Equal(t, "vid-2", vid.ID)
	assert.Equal(t, "img-3", img2.ID, "連番は種別をまたいで単調増加すること")
}

func TestGallery_AddRejectsEmptyData(t *testing.T) {
	g := newTestGallery()

	_, err := g.Add(domain.AssetImage, nil, "image/jpeg", "p")
	assert.Error(t, err)
	_, err = g.Add(domain.AssetImage, []byte("x"), "", "p")
	assert.Error(t, err)
	assert.Zero(t, g.Len())
}

func TestGallery_FilterAndSort(t *testing.T) {
	g := newTestGallery()
	img1, _ := g.Add(domain.AssetImage, []byte("a"), "image/jpeg", "p1")
	vid, _ := g.Add(domain.AssetVideo, []byte("b"), "video/mp4", "p2")
	img2, _ := g.Add(domain.AssetImage, []byte("c"), "image/jpeg", "p3")
	_, err := g.ToggleFavorite(vid.ID)
	require.NoError(t, err)

	t.Run("既定は新しい順", func(t *testing.T) {
		ids := assetIDs(g.List(FilterAll, SortNewest))
		assert.Equal(t, []string{img2.ID, vid.ID, img1.ID}, ids)
	})

	t.Run("古い順", func(t *testing.T) {
		ids := assetIDs(g.List(FilterAll, SortOldest))
		assert.Equal(t, []string{img1.ID, vid.ID, img2.ID}, ids)
	})

	t.Run("画像のみ", func(t *testing.T) {
		ids := assetIDs(g.List(FilterImages, SortNewest))
		assert.Equal(t, []string{img2.ID, img1.ID}, ids)
	})

	t.Run("動画のみ", func(t *testing.T) {
		ids := assetIDs(g.List(FilterVideos, SortNewest))
		assert.Equal(t, []string{vid.ID}, ids)
	})

	t.Run("お気に入りのみ", func(t *testing.T) {
		ids := assetIDs(g.List(FilterFavorites, SortNewest))
		assert.Equal(t, []string{vid.ID}, ids)
	})
}

func TestGallery_ToggleFavorite(t *testing.T) {
	g := newTestGallery()
	img, _ := g.Add(domain.AssetImage, []byte("a"), "image/jpeg", "p")

	on, err := g.ToggleFavorite(img.ID)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := g.ToggleFavorite(img.ID)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = g.ToggleFavorite("missing")
	assert.Error(t, err)
}

func TestGallery_UpdateDataPreservesIdentity(t *testing.T) {
	g := newTestGallery()
	img, _ := g.Add(domain.AssetImage, []byte("small"), "image/jpeg", "original prompt")
	_, err := g.ToggleFavorite(img.ID)
	require.NoError(t, err)

	require.NoError(t, g.UpdateData(img.ID, []byte("upscaled"), "image/png"))

	updated, ok := g.Get(img.ID)
	require.True(t, ok)
	assert.Equal(t, []byte("upscaled"), updated.Data)
	assert.Equal(t, "image/png", updated.MimeType)
	assert.Equal(t, "original prompt", updated.Prompt, "プロンプトは維持されること")
	assert.Equal(t, img.CreatedAt, updated.CreatedAt, "作成日時は維持されること")
	assert.True(t, updated.IsFavorite, "お気に入りは維持されること")
	assert.Equal(t, 1, g.Len(), "差し替えであって追加ではないこと")

	assert.Error(t, g.UpdateData("missing", []byte("x"), "image/png"))
}

func assetIDs(assets []domain.GeneratedAsset) []string {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}
	return ids
}
