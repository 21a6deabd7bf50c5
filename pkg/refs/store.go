// Package refs は参照画像の所有コレクションとロール割り当てを管理します。
// ネットワークには一切触れません。
package refs

import (
	"fmt"

	"github.com/shouni/go-persona-studio/pkg/domain"
)

// Store はキャラクターが利用可能な参照画像の集合を保持します。
// 各画像は「プライマリスロット」「カノンギャラリー」「ローカルリスト」の
// いずれか1つのコレクションに所有されます。
type Store struct {
	primary *domain.ReferenceImage
	canon   []domain.ReferenceImage
	local   []domain.ReferenceImage
	seq     int
}

// NewStore は空の参照ストアを生成します。
func NewStore() *Store {
	return &Store{}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// SetPrimary はプライマリ画像を差し替え、新しい画像のIDを返します。
// 既存のプライマリは破棄されます（ロールスロットの修復は呼び出し元の責務です）。
func (s *Store) SetPrimary(name string, data []byte, mimeType string) domain.ReferenceImage {
	img := domain.ReferenceImage{
		ID:       s.nextID("avatar"),
		Name:     name,
		Data:     data,
		MimeType: mimeType,
		Origin:   domain.OriginPrimary,
	}
	s.primary = &img
	return img.Clone()
}

// ClearPrimary はプライマリスロットを空にします。
func (s *Store) ClearPrimary() {
	s.primary = nil
}

// PrimaryID はプライマリ画像のIDを返します。未設定なら空文字列です。
func (s *Store) PrimaryID() string {
	if s.primary == nil {
		return ""
	}
	return s.primary.ID
}

// AddCanon はカノンギャラリーの末尾に画像を追加します。
func (s *Store) AddCanon(name string, data []byte, mimeType string) domain.ReferenceImage {
	img := domain.ReferenceImage{
		ID:       s.nextID("canon"),
		Name:     name,
		Data:     data,
		MimeType: mimeType,
		Origin:   domain.OriginCanon,
	}
	s.canon = append(s.canon, img)
	return img.Clone()
}

// AddLocal はローカル（一時）リストに画像を追加します。
func (s *Store) AddLocal(name string, data []byte, mimeType string) domain.ReferenceImage {
	img := domain.ReferenceImage{
		ID:       s.nextID("local"),
		Name:     name,
		Data:     data,
		MimeType: mimeType,
		Origin:   domain.OriginLocal,
	}
	s.local = append(s.local, img)
	return img.Clone()
}

// Lookup はIDで画像を検索します。すべてのコレクションを横断します。
func (s *Store) Lookup(id string) (domain.ReferenceImage, bool) {
	if s.primary != nil && s.primary.ID == id {
		return s.primary.Clone(), true
	}
	for _, img := range s.canon {
		if img.ID == id {
			return img.Clone(), true
		}
	}
	for _, img := range s.local {
		if img.ID == id {
			return img.Clone(), true
		}
	}
	return domain.ReferenceImage{}, false
}

// Has はIDの画像がいずれかのコレクションに存在するかを返します。
func (s *Store) Has(id string) bool {
	_, ok := s.Lookup(id)
	return ok
}

// Remove は所有コレクションから画像を取り除きます。
// 見つかって削除された場合は true を返します。ロールスロットに残った
// ダングリング参照の掃除は Assignment / GroupSelection 側で行います。
func (s *Store) Remove(id string) bool {
	if s.primary != nil && s.primary.ID == id {
		s.primary = nil
		return true
	}
	for i, img := range s.canon {
		if img.ID == id {
			s.canon = append(s.canon[:i], s.canon[i+1:]...)
			return true
		}
	}
	for i, img := range s.local {
		if img.ID == id {
			s.local = append(s.local[:i], s.local[i+1:]...)
			return true
		}
	}
	return false
}

// All は選択可能な参照画像を表示順（プライマリ→カノン→ローカル）で返します。
func (s *Store) All() []domain.ReferenceImage {
	out := make([]domain.ReferenceImage, 0, 1+len(s.canon)+len(s.local))
	if s.primary != nil {
		out = append(out, s.primary.Clone())
	}
	for _, img := range s.canon {
		out = append(out, img.Clone())
	}
	for _, img := range s.local {
		out = append(out, img.Clone())
	}
	return out
}

// Len は保持している画像の総数を返します。
func (s *Store) Len() int {
	n := len(s.canon) + len(s.local)
	if s.primary != nil {
		n++
	}
	return n
}
