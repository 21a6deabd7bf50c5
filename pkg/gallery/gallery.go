// Package gallery は生成済みアセットのセッション内ギャラリーを管理します。
// 追記専用のストアで、並べ替えとフィルタは読み出し時に適用します。
package gallery

import (
	"fmt"
	"sync"
	"time"

	"github.com/shouni/go-persona-studio/pkg/domain"
)

// Filter はギャラリーの絞り込み条件です。
type Filter string

const (
	FilterAll       Filter = "all"
	FilterImages    Filter = "images"
	FilterVideos    Filter = "videos"
	FilterFavorites Filter = "favorites"
)

// Sort はギャラリーの並び順です。
type Sort string

const (
	SortNewest Sort = "newest"
	SortOldest Sort = "oldest"
)

// Gallery は生成済みアセットの追記専用ストアです。
// ID は種別ごとの接頭辞と単調増加の連番から払い出します。
type Gallery struct {
	mu     sync.RWMutex
	assets []domain.GeneratedAsset
	seq    int
	now    func() time.Time
}

// New は空のギャラリーを返します。
func New() *Gallery {
	return &Gallery{now: time.Now}
}

// Add はアセットを登録し、払い出した ID を返します。
// Data と MimeType が空のアセットは登録できません。
func (g *Gallery) Add(kind domain.AssetKind, data []byte, mimeType, prompt string) (domain.GeneratedAsset, error) {
	if len(data) == 0 || mimeType == "" {
		return domain.GeneratedAsset{}, fmt.Errorf("アセットのデータと MIME タイプは必須です")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.seq++
	prefix := "img"
	if kind == domain.AssetVideo {
		prefix = "vid"
	}

	asset := domain.GeneratedAsset{
		ID:        fmt.Sprintf("%s-%d", prefix, g.seq),
		Kind:      kind,
		Data:      append([]byte(nil), data...),
		MimeType:  mimeType,
		Prompt:    prompt,
		CreatedAt: g.now(),
	}
	g.assets = append(g.assets, asset)
	return asset, nil
}

// Get は ID でアセットを検索します。
func (g *Gallery) Get(id string) (domain.GeneratedAsset, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, a := range g.assets {
		if a.ID == id {
			return a, true
		}
	}
	return domain.GeneratedAsset{}, false
}

// ToggleFavorite はお気に入りフラグを反転し、更新後の値を返します。
func (g *Gallery) ToggleFavorite(id string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.assets {
		if g.assets[i].ID == id {
			g.assets[i].IsFavorite = !g.assets[i].IsFavorite
			return g.assets[i].IsFavorite, nil
		}
	}
	return false, fmt.Errorf("%w: アセット '%s'", domain.ErrNotFound, id)
}

// UpdateData はアセットのバイナリを同一 ID のまま差し替えます。
// ID・プロンプト・作成日時・お気に入りは維持されます。
func (g *Gallery) UpdateData(id string, data []byte, mimeType string) error {
	if len(data) == 0 || mimeType == "" {
		return fmt.Errorf("差し替えるデータと MIME タイプは必須です")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for i := range g.assets {
		if g.assets[i].ID == id {
			g.assets[i].Data = append([]byte(nil), data...)
			g.assets[i].MimeType = mimeType
			return nil
		}
	}
	return fmt.Errorf("%w: アセット '%s'", domain.ErrNotFound, id)
}

// List はフィルタと並び順を適用した一覧を返します。
// 既定の並び順は新しい順です。
func (g *Gallery) List(filter Filter, sort Sort) []domain.GeneratedAsset {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]domain.GeneratedAsset, 0, len(g.assets))
	for _, a := range g.assets {
		if matches(a, filter) {
			result = append(result, a)
		}
	}

	// 登録順 = 古い順が内部表現。新しい順は反転で得る。
	if sort != SortOldest {
		for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
			result[i], result[j] = result[j], result[i]
		}
	}
	return result
}

// Len は登録済みアセットの総数を返します。
func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.assets)
}

func matches(a domain.GeneratedAsset, filter Filter) bool {
	switch filter {
	case FilterImages:
		return a.Kind == domain.AssetImage
	case FilterVideos:
		return a.Kind == domain.AssetVideo
	case FilterFavorites:
		return a.IsFavorite
	default:
		return true
	}
}
