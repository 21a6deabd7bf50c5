package prompts

import (
	_ "embed"
	"fmt"
	"strings"
	"text/template"
)

// モード識別子です。テンプレートファイルと1対1で対応します。
const (
	ModeIdentityEdit   = "identity_edit"
	ModeStyleTransfer  = "style_transfer"
	ModeGroupComposite = "group_composite"
	ModeVideoIdentity  = "video_identity"
	modeAvatar         = "canonical_avatar"
)

//go:embed templates/identity_edit.md
var identityEditTemplate string

//go:embed templates/style_transfer.md
var styleTransferTemplate string

//go:embed templates/group_composite.md
var groupCompositeTemplate string

//go:embed templates/video_identity.md
var videoIdentityTemplate string

//go:embed templates/realism_boost.md
var realismBoostSuffix string

//go:embed templates/video_realism_boost.md
var videoRealismBoostSuffix string

//go:embed templates/canonical_avatar.md
var canonicalAvatarTemplate string

// allTemplates はモードとテンプレート本文を紐づけるマップです。
var allTemplates = map[string]string{
	ModeIdentityEdit:   identityEditTemplate,
	ModeStyleTransfer:  styleTransferTemplate,
	ModeGroupComposite: groupCompositeTemplate,
	ModeVideoIdentity:  videoIdentityTemplate,
	modeAvatar:         canonicalAvatarTemplate,
}

// templateData はテンプレート実行時に渡す値の集合です。
type templateData struct {
	Instruction string
	Count       int
	Name        string
	Age         uint
	Description string
}

// parseAll は埋め込みテンプレートを一括で解析します。
func parseAll() (map[string]*template.Template, error) {
	parsed := make(map[string]*template.Template, len(allTemplates))
	for mode, content := range allTemplates {
		if content == "" {
			return nil, fmt.Errorf("プロンプトテンプレート '%s' (go:embed) の読み込みに失敗しました: 内容が空です", mode)
		}
		tmpl, err := template.New(mode).Parse(content)
		if err != nil {
			return nil, fmt.Errorf("プロンプト '%s' の解析に失敗: %w", mode, err)
		}
		parsed[mode] = tmpl
	}
	return parsed, nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("プロンプトテンプレートの実行に失敗しました: %w", err)
	}
	// 埋め込みファイル末尾の改行はプロンプトに含めない
	return strings.TrimRight(sb.String(), "\n"), nil
}
