// Package studio はキャラクター1体ぶんの作業セッションを統括します。
// 参照画像・ロール割り当て・ギャラリー・編集セッション・生成状態を
// 1つの集約として保持し、生成種別ごとの単一飛行を保証します。
package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shouni/go-persona-studio/pkg/domain"
	"github.com/shouni/go-persona-studio/pkg/editing"
	"github.com/shouni/go-persona-studio/pkg/gallery"
	"github.com/shouni/go-persona-studio/pkg/gemini"
	"github.com/shouni/go-persona-studio/pkg/prompts"
	"github.com/shouni/go-persona-studio/pkg/refs"
)

// Backend は生成サービスへの操作の集合です。pkg/gemini の Client が実装します。
type Backend interface {
	ValidateKey(ctx context.Context, apiKey string) error
	EnhanceText(ctx context.Context, apiKey, systemInstruction, prompt string) (string, error)
	EditImage(ctx context.Context, apiKey, prompt string, images []domain.ImagePayload, aspectRatio string) (domain.ImagePayload, error)
	SynthesizeGroupPhoto(ctx context.Context, apiKey, prompt string, images []domain.ImagePayload) (domain.ImagePayload, error)
	GenerateVideo(ctx context.Context, apiKey, prompt string, ref *domain.ImagePayload, onProgress gemini.ProgressFunc) (domain.ImagePayload, error)
}

// Studio は1セッションぶんの作業状態の集約です。
// すべての公開メソッドは並行呼び出しに対して安全です。
type Studio struct {
	backend    Backend
	composer   *prompts.Composer
	rasterizer editing.Rasterizer

	mu         sync.Mutex
	profile    domain.CharacterProfile
	refs       *refs.Store
	assignment *refs.Assignment
	group      *refs.GroupSelection
	gallery    *gallery.Gallery
	editors    map[string]*editing.Editor
	credential string

	generators map[Kind]*generator
}

// New は Studio を初期化します。
func New(backend Backend, composer *prompts.Composer, rasterizer editing.Rasterizer) (*Studio, error) {
	if backend == nil {
		return nil, errors.New("backend クライアントが指定されていません")
	}
	if composer == nil {
		return nil, errors.New("プロンプトコンポーザーが指定されていません")
	}
	if rasterizer == nil {
		return nil, errors.New("ラスタライザーが指定されていません")
	}

	generators := make(map[Kind]*generator, len(allKinds))
	for _, kind := range allKinds {
		generators[kind] = &generator{}
	}

	return &Studio{
		backend:    backend,
		composer:   composer,
		rasterizer: rasterizer,
		refs:       refs.NewStore(),
		assignment: refs.NewAssignment(),
		group:      refs.NewGroupSelection(),
		gallery:    gallery.New(),
		editors:    make(map[string]*editing.Editor),
		generators: generators,
	}, nil
}

// --- 認証情報 ---

// SetCredential は API キーを検証してからセッションに保存します。
func (s *Studio) SetCredential(ctx context.Context, apiKey string) error {
	if err := s.backend.ValidateKey(ctx, apiKey); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = apiKey
	return nil
}

// SeedCredential は検証なしで API キーを設定します。
// 環境変数によるサーバー起動時の事前シード専用です。
func (s *Studio) SeedCredential(apiKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = apiKey
}

// ClearCredential は保存済みの API キーを破棄します。
func (s *Studio) ClearCredential() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credential = ""
}

// HasCredential は API キーが設定済みかどうかを返します。
func (s *Studio) HasCredential() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential != ""
}

// requireCredential は保存済みキーを返します。未設定なら前提条件エラーです。
func (s *Studio) requireCredential() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credential == "" {
		return "", domain.ErrMissingCredential
	}
	return s.credential, nil
}

// --- プロフィール ---

// Profile は現在のキャラクタープロフィールを返します。
func (s *Studio) Profile() domain.CharacterProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileLocked()
}

func (s *Studio) profileLocked() domain.CharacterProfile {
	p := s.profile
	if primary, ok := s.refs.Lookup(s.refs.PrimaryID()); ok {
		p.PrimaryImage = &primary
	}
	p.CanonImages = nil
	for _, img := range s.refs.All() {
		if img.Origin == domain.OriginCanon {
			p.CanonImages = append(p.CanonImages, img)
		}
	}
	return p
}

// UpdateProfile はテキスト属性を更新します。画像は対象外です。
func (s *Studio) UpdateProfile(name string, age uint, ethnicity, persona, description string) domain.CharacterProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Name = name
	s.profile.Age = age
	s.profile.Ethnicity = ethnicity
	s.profile.Persona = persona
	s.profile.Description = description
	return s.profileLocked()
}

// --- 参照画像 ---

// SetPrimaryImage はプライマリ画像を差し替え、ロールスロットを修復します。
func (s *Studio) SetPrimaryImage(name string, data []byte, mimeType string) domain.ReferenceImage {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.refs.PrimaryID()
	img := s.refs.SetPrimary(name, data, mimeType)
	if previous != "" {
		s.assignment.OnRemoved(previous)
		s.group.Remove(previous)
	}
	s.assignment.RepairAfterPrimaryChange(s.refs)
	return img
}

// AddCanonImage はカノンギャラリーに画像を追加します。
func (s *Studio) AddCanonImage(name string, data []byte, mimeType string) domain.ReferenceImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs.AddCanon(name, data, mimeType)
}

// AddLocalImage はローカルリストに画像を追加します。
func (s *Studio) AddLocalImage(name string, data []byte, mimeType string) domain.ReferenceImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs.AddLocal(name, data, mimeType)
}

// RemoveImage は画像を削除し、ロールスロットとグループ選択を掃除します。
func (s *Studio) RemoveImage(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.refs.Remove(id) {
		return fmt.Errorf("%w: 参照画像 '%s'", domain.ErrNotFound, id)
	}
	s.assignment.OnRemoved(id)
	s.group.Remove(id)
	s.assignment.RepairAfterPrimaryChange(s.refs)
	return nil
}

// References は選択可能な参照画像の一覧を表示順で返します。
func (s *Studio) References() []domain.ReferenceImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs.All()
}

// --- ロール割り当て ---

// AssignContent はコンテンツ参照をトグル設定します。
func (s *Studio) AssignContent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.refs.Has(id) {
		return fmt.Errorf("%w: 参照画像 '%s'", domain.ErrNotFound, id)
	}
	s.assignment.SetContent(id)
	return nil
}

// AssignStyle はスタイル参照をトグル設定します。
func (s *Studio) AssignStyle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.refs.Has(id) {
		return fmt.Errorf("%w: 参照画像 '%s'", domain.ErrNotFound, id)
	}
	s.assignment.SetStyle(id)
	return nil
}

// Roles は現在のロール割り当て（コンテンツ・スタイルのID）を返します。
func (s *Studio) Roles() (contentRef, styleRef string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignment.ContentRef(), s.assignment.StyleRef()
}

// --- グループ選択 ---

// ToggleGroupMember はグループメンバーの選択状態を反転します。
func (s *Studio) ToggleGroupMember(id string) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.refs.Has(id) {
		return false, fmt.Errorf("%w: 参照画像 '%s'", domain.ErrNotFound, id)
	}
	return s.group.Toggle(id), nil
}

// SetGroupPrimary はグループの代表メンバーを指定します。
func (s *Studio) SetGroupPrimary(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.group.SetPrimary(id)
}

// GroupMembers は追加順のメンバーIDと代表IDを返します。
func (s *Studio) GroupMembers() (members []string, primary string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group.Members(), s.group.PrimaryRef()
}

// ValidateGroup はグループ合成が許可できる状態かを返します。
func (s *Studio) ValidateGroup() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.group.Validate()
}

// --- ギャラリー ---

// Gallery はフィルタと並び順を適用したアセット一覧を返します。
func (s *Studio) Gallery(filter gallery.Filter, sort gallery.Sort) []domain.GeneratedAsset {
	return s.gallery.List(filter, sort)
}

// Asset はIDでアセットを検索します。
func (s *Studio) Asset(id string) (domain.GeneratedAsset, bool) {
	return s.gallery.Get(id)
}

// ToggleFavorite はアセットのお気に入りフラグを反転します。
func (s *Studio) ToggleFavorite(id string) (bool, error) {
	return s.gallery.ToggleFavorite(id)
}

// --- 生成状態 ---

// State は指定種別の生成状態を返します。
func (s *Studio) State(kind Kind) domain.GenerationState {
	g, ok := s.generators[kind]
	if !ok {
		return domain.GenerationState{}
	}
	return g.snapshot()
}

// States は全種別の生成状態を返します。
func (s *Studio) States() map[Kind]domain.GenerationState {
	out := make(map[Kind]domain.GenerationState, len(s.generators))
	for kind, g := range s.generators {
		out[kind] = g.snapshot()
	}
	return out
}

// --- 編集セッション ---

// editor はアセットごとの編集セッションを遅延生成します。
func (s *Studio) editor(assetID string) (*editing.Editor, error) {
	if _, ok := s.gallery.Get(assetID); !ok {
		return nil, fmt.Errorf("%w: アセット '%s'", domain.ErrNotFound, assetID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.editors[assetID]
	if !ok {
		e = editing.NewEditor()
		s.editors[assetID] = e
	}
	return e, nil
}

// EditSession はアセットの編集セッション状態を返します。
type EditSession struct {
	State   editing.EditState `json:"state"`
	CanUndo bool              `json:"can_undo"`
	CanRedo bool              `json:"can_redo"`
}

func sessionOf(e *editing.Editor) EditSession {
	return EditSession{State: e.Live(), CanUndo: e.CanUndo(), CanRedo: e.CanRedo()}
}

// ApplyEdit はライブ編集状態を差し替えます（履歴には積まれません）。
func (s *Studio) ApplyEdit(assetID string, state editing.EditState) (EditSession, error) {
	e, err := s.editor(assetID)
	if err != nil {
		return EditSession{}, err
	}
	e.Apply(state)
	return sessionOf(e), nil
}

// CommitEdit はライブ編集状態を履歴に確定します。
func (s *Studio) CommitEdit(assetID string) (EditSession, error) {
	e, err := s.editor(assetID)
	if err != nil {
		return EditSession{}, err
	}
	e.Commit()
	return sessionOf(e), nil
}

// UndoEdit は編集を1つ戻します。
func (s *Studio) UndoEdit(assetID string) (EditSession, error) {
	e, err := s.editor(assetID)
	if err != nil {
		return EditSession{}, err
	}
	e.Undo()
	return sessionOf(e), nil
}

// RedoEdit は編集を1つ進めます。
func (s *Studio) RedoEdit(assetID string) (EditSession, error) {
	e, err := s.editor(assetID)
	if err != nil {
		return EditSession{}, err
	}
	e.Redo()
	return sessionOf(e), nil
}

// ResetEdit は編集を無変換状態に戻します。
func (s *Studio) ResetEdit(assetID string) (EditSession, error) {
	e, err := s.editor(assetID)
	if err != nil {
		return EditSession{}, err
	}
	e.Reset()
	return sessionOf(e), nil
}

// EditState はアセットの編集セッション状態を返します。
func (s *Studio) EditState(assetID string) (EditSession, error) {
	e, err := s.editor(assetID)
	if err != nil {
		return EditSession{}, err
	}
	return sessionOf(e), nil
}

// ExportAsset はライブ編集状態を適用した最終ビットマップを書き出します。
// 元アセットは変更されません。
func (s *Studio) ExportAsset(assetID string) ([]byte, string, error) {
	asset, ok := s.gallery.Get(assetID)
	if !ok {
		return nil, "", fmt.Errorf("%w: アセット '%s'", domain.ErrNotFound, assetID)
	}
	if asset.Kind != domain.AssetImage {
		return nil, "", fmt.Errorf("アセット '%s' は画像ではないため書き出せません", assetID)
	}

	e, err := s.editor(assetID)
	if err != nil {
		return nil, "", err
	}
	return s.rasterizer.Render(asset.Data, e.Live())
}
