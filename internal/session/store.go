// Package session はブラウザセッションごとの Studio 集約を TTL 付きで保持します。
// 永続化は行わず、期限切れセッションはキャッシュ側の掃除で破棄されます。
package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/shouni/go-persona-studio/pkg/studio"
)

// ErrNotFound は存在しない・期限切れのセッションIDに対するエラーです。
var ErrNotFound = errors.New("session not found or expired")

// Factory は新しいセッション用の Studio を構築します。
type Factory func() (*studio.Studio, error)

// Store はセッションID → Studio の TTL ストアです。
// アクセスのたびに期限を延長します（touch-on-access）。
type Store struct {
	cache   *cache.Cache
	ttl     time.Duration
	factory Factory
}

// NewStore はセッションストアを初期化します。
func NewStore(ttl time.Duration, factory Factory) (*Store, error) {
	if factory == nil {
		return nil, errors.New("セッションファクトリが指定されていません")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("セッションTTLが不正です: %v", ttl)
	}
	return &Store{
		cache:   cache.New(ttl, ttl/2),
		ttl:     ttl,
		factory: factory,
	}, nil
}

// Create は新しいセッションを作成し、IDと Studio を返します。
func (s *Store) Create() (string, *studio.Studio, error) {
	st, err := s.factory()
	if err != nil {
		return "", nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	id, err := newSessionID()
	if err != nil {
		return "", nil, err
	}
	s.cache.Set(id, st, cache.DefaultExpiration)
	return id, st, nil
}

// Get はセッションを取得し、期限を延長します。
func (s *Store) Get(id string) (*studio.Studio, error) {
	value, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	st, ok := value.(*studio.Studio)
	if !ok {
		return nil, fmt.Errorf("予期しないセッション型です: %T", value)
	}
	// アクセスのたびに期限を延長する
	s.cache.Set(id, st, cache.DefaultExpiration)
	return st, nil
}

// Delete はセッションを即座に破棄します。
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len は生存中のセッション数を返します。
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func newSessionID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("セッションIDの生成に失敗しました: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
