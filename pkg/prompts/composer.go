// Package prompts は生成バックエンドへ送る指示文を組み立てます。
// Compose は純粋関数であり、同じ入力からは常にバイト単位で同一の
// プロンプトとペイロード順序を生成します。
package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/shouni/go-persona-studio/pkg/domain"
)

// Composer は解析済みテンプレートを保持するプロンプトビルダーです。
type Composer struct {
	templates map[string]*template.Template
}

// NewComposer は埋め込みテンプレートを解析して Composer を初期化します。
func NewComposer() (*Composer, error) {
	parsed, err := parseAll()
	if err != nil {
		return nil, err
	}
	return &Composer{templates: parsed}, nil
}

// Request はプロンプト合成の入力です。ロール割り当てを解決済みの
// 参照画像として受け取るため、Compose はストアにもネットワークにも依存しません。
type Request struct {
	// Instruction はユーザーのシーン指示文です。
	Instruction string
	// Content はアイデンティティを保持すべき被写体の参照画像です。
	Content *domain.ReferenceImage
	// Style は美的スタイルを転写する参照画像です（任意）。
	Style *domain.ReferenceImage
	// Members はグループ合成のメンバー画像です（追加順）。
	Members []domain.ReferenceImage
	// RealismBoost が真なら、固定のリアリズム強化サフィックスを最終セグメントとして付加します。
	RealismBoost bool
}

// Composed は合成結果です。Text が最終指示文、Images が送信順のペイロードです。
type Composed struct {
	Mode   string
	Text   string
	Images []domain.ImagePayload
}

// Compose は現在のロール割り当てからモードを決定し、最終プロンプトを構築します。
//   - メンバーが2枚以上       → グループ合成
//   - コンテンツ + スタイル   → スタイル転写（ペイロードは [content, style] の固定順）
//   - コンテンツのみ          → アイデンティティ保持編集
//   - コンテンツ未選択        → domain.ErrNoContentRef
func (c *Composer) Compose(req Request) (Composed, error) {
	if len(req.Members) >= 2 {
		return c.composeGroup(req)
	}
	if req.Content == nil {
		return Composed{}, domain.ErrNoContentRef
	}
	if req.Style != nil {
		return c.composeStyleTransfer(req)
	}
	return c.composeIdentityEdit(req)
}

func (c *Composer) composeIdentityEdit(req Request) (Composed, error) {
	text, err := render(c.templates[ModeIdentityEdit], templateData{Instruction: req.Instruction})
	if err != nil {
		return Composed{}, err
	}
	return Composed{
		Mode:   ModeIdentityEdit,
		Text:   c.appendRealism(text, req.RealismBoost, false),
		Images: []domain.ImagePayload{req.Content.Payload()},
	}, nil
}

func (c *Composer) composeStyleTransfer(req Request) (Composed, error) {
	text, err := render(c.templates[ModeStyleTransfer], templateData{Instruction: req.Instruction})
	if err != nil {
		return Composed{}, err
	}
	return Composed{
		Mode:   ModeStyleTransfer,
		Text:   c.appendRealism(text, req.RealismBoost, false),
		Images: []domain.ImagePayload{req.Content.Payload(), req.Style.Payload()},
	}, nil
}

func (c *Composer) composeGroup(req Request) (Composed, error) {
	if len(req.Members) < 2 || len(req.Members) > 10 {
		return Composed{}, domain.ErrGroupSize
	}
	text, err := render(c.templates[ModeGroupComposite], templateData{Count: len(req.Members)})
	if err != nil {
		return Composed{}, err
	}
	images := make([]domain.ImagePayload, 0, len(req.Members))
	for _, m := range req.Members {
		images = append(images, m.Payload())
	}
	return Composed{
		Mode:   ModeGroupComposite,
		Text:   c.appendRealism(text, req.RealismBoost, false),
		Images: images,
	}, nil
}

// ComposeVideo は動画生成向けの指示文を構築します。参照画像がある場合は
// アイデンティティ保持ディレクティブでユーザープロンプトを包みます。
func (c *Composer) ComposeVideo(instruction string, ref *domain.ReferenceImage, realismBoost bool) (Composed, error) {
	text := instruction
	images := []domain.ImagePayload(nil)

	if ref != nil {
		wrapped, err := render(c.templates[ModeVideoIdentity], templateData{Instruction: instruction})
		if err != nil {
			return Composed{}, err
		}
		text = wrapped
		images = []domain.ImagePayload{ref.Payload()}
	}

	return Composed{
		Mode:   ModeVideoIdentity,
		Text:   c.appendRealism(text, realismBoost, true),
		Images: images,
	}, nil
}

// ComposeAvatar はプロフィールからカノニカルなポートレートの生成プロンプトを構築します。
func (c *Composer) ComposeAvatar(profile domain.CharacterProfile) (string, error) {
	age := profile.Age
	if age == 0 {
		age = 22
	}
	description := profile.Description
	if description == "" {
		description = fmt.Sprintf("A fictional person known as %s.", profile.DisplayName())
	}
	return render(c.templates[modeAvatar], templateData{
		Name:        profile.DisplayName(),
		Age:         age,
		Description: description,
	})
}

// appendRealism はリアリズム強化サフィックスを常に最終セグメントとして連結します。
func (c *Composer) appendRealism(text string, enabled, video bool) string {
	if !enabled {
		return text
	}
	suffix := realismBoostSuffix
	if video {
		suffix = videoRealismBoostSuffix
	}
	return text + "\n\n" + strings.TrimRight(suffix, "\n")
}
