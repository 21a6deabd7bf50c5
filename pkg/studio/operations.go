package studio

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/shouni/go-persona-studio/pkg/domain"
	"github.com/shouni/go-persona-studio/pkg/prompts"
	"github.com/shouni/go-persona-studio/pkg/refs"
)

// GenerateAvatar はプロフィールからカノニカルなポートレートを生成し、
// プライマリ画像として設置します。コンテンツ参照の自動選択ルールも働きます。
func (s *Studio) GenerateAvatar(ctx context.Context) (domain.ReferenceImage, error) {
	apiKey, err := s.requireCredential()
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	g := s.generators[KindAvatar]
	token, err := g.begin("Creating your character...")
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	img, err := s.generateAvatar(ctx, apiKey)
	g.finish(token, err)
	return img, err
}

func (s *Studio) generateAvatar(ctx context.Context, apiKey string) (domain.ReferenceImage, error) {
	s.mu.Lock()
	profile := s.profile
	s.mu.Unlock()

	prompt, err := s.composer.ComposeAvatar(profile)
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	result, err := s.backend.EditImage(ctx, apiKey, prompt, nil, "")
	if err != nil {
		return domain.ReferenceImage{}, err
	}

	name := fmt.Sprintf("%s.png", profile.DisplayName())
	return s.SetPrimaryImage(name, result.Data, result.MimeType), nil
}

// GenerateEdit はロール割り当てからモードを導出して画像を生成し、
// 成功時にギャラリーへ1件追加します。
func (s *Studio) GenerateEdit(ctx context.Context, instruction, aspectRatio string, realismBoost bool) (domain.GeneratedAsset, error) {
	apiKey, err := s.requireCredential()
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	g := s.generators[KindImageEdit]
	token, err := g.begin("Generating your image...")
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	asset, err := s.generateEdit(ctx, apiKey, instruction, aspectRatio, realismBoost)
	g.finish(token, err)
	return asset, err
}

func (s *Studio) generateEdit(ctx context.Context, apiKey, instruction, aspectRatio string, realismBoost bool) (domain.GeneratedAsset, error) {
	s.mu.Lock()
	req := prompts.Request{Instruction: instruction, RealismBoost: realismBoost}
	if content, ok := s.assignment.ResolveContent(s.refs); ok {
		req.Content = &content
	}
	if style, ok := s.assignment.ResolveStyle(s.refs); ok {
		req.Style = &style
	}
	s.mu.Unlock()

	composed, err := s.composer.Compose(req)
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	result, err := s.backend.EditImage(ctx, apiKey, composed.Text, composed.Images, aspectRatio)
	if err != nil {
		return domain.GeneratedAsset{}, err
	}
	return s.gallery.Add(domain.AssetImage, result.Data, result.MimeType, instruction)
}

// GenerateGroupPhoto は選択中のメンバーから集合写真を合成します。
func (s *Studio) GenerateGroupPhoto(ctx context.Context, realismBoost bool) (domain.GeneratedAsset, error) {
	apiKey, err := s.requireCredential()
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	g := s.generators[KindGroupPhoto]
	token, err := g.begin("Synthesizing your group photo...")
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	asset, err := s.generateGroupPhoto(ctx, apiKey, realismBoost)
	g.finish(token, err)
	return asset, err
}

func (s *Studio) generateGroupPhoto(ctx context.Context, apiKey string, realismBoost bool) (domain.GeneratedAsset, error) {
	s.mu.Lock()
	if err := s.group.Validate(); err != nil {
		s.mu.Unlock()
		return domain.GeneratedAsset{}, err
	}
	members := s.group.ResolveMembers(s.refs)
	s.mu.Unlock()

	if len(members) < refs.MinGroupMembers {
		return domain.GeneratedAsset{}, domain.ErrGroupSize
	}

	composed, err := s.composer.Compose(prompts.Request{Members: members, RealismBoost: realismBoost})
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	// 各メンバー画像のヘッダ検証と防御的コピーを並行で行う。
	// 壊れた画像を送るとアップストリームが曖昧な 400 を返すため、
	// 送信前に弾く。順序は添字で固定される。
	payloads := make([]domain.ImagePayload, len(composed.Images))
	var eg errgroup.Group
	for i, img := range composed.Images {
		eg.Go(func() error {
			if _, _, err := image.DecodeConfig(bytes.NewReader(img.Data)); err != nil {
				return fmt.Errorf("メンバー %d の画像を解釈できません: %w", i+1, err)
			}
			payloads[i] = domain.ImagePayload{
				Data:     append([]byte(nil), img.Data...),
				MimeType: img.MimeType,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return domain.GeneratedAsset{}, err
	}

	result, err := s.backend.SynthesizeGroupPhoto(ctx, apiKey, composed.Text, payloads)
	if err != nil {
		return domain.GeneratedAsset{}, err
	}
	return s.gallery.Add(domain.AssetImage, result.Data, result.MimeType, composed.Text)
}

// GenerateVideo は動画を生成します。進捗文言は生成状態スロットへ流れます。
// useReference が真ならコンテンツ参照を開始フレームの一貫性維持に使います。
func (s *Studio) GenerateVideo(ctx context.Context, instruction string, useReference, realismBoost bool) (domain.GeneratedAsset, error) {
	if strings.TrimSpace(instruction) == "" {
		return domain.GeneratedAsset{}, fmt.Errorf("動画生成には指示文が必要です")
	}
	apiKey, err := s.requireCredential()
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	g := s.generators[KindVideo]
	token, err := g.begin("Initializing video request...")
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	asset, err := s.generateVideo(ctx, apiKey, instruction, useReference, realismBoost, func(msg string) {
		g.progress(token, msg)
	})
	g.finish(token, err)
	return asset, err
}

func (s *Studio) generateVideo(ctx context.Context, apiKey, instruction string, useReference, realismBoost bool, onProgress func(string)) (domain.GeneratedAsset, error) {
	var ref *domain.ReferenceImage
	if useReference {
		s.mu.Lock()
		if content, ok := s.assignment.ResolveContent(s.refs); ok {
			ref = &content
		}
		s.mu.Unlock()
	}

	composed, err := s.composer.ComposeVideo(instruction, ref, realismBoost)
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	var payload *domain.ImagePayload
	if len(composed.Images) > 0 {
		payload = &composed.Images[0]
	}

	result, err := s.backend.GenerateVideo(ctx, apiKey, composed.Text, payload, onProgress)
	if err != nil {
		return domain.GeneratedAsset{}, err
	}
	// 動画は合成済みの最終プロンプトを記録する。画像は入力文そのまま。
	return s.gallery.Add(domain.AssetVideo, result.Data, result.MimeType, composed.Text)
}

// EnhancePrompt はユーザープロンプトを写実性重視の詳細な指示文へ強化します。
func (s *Studio) EnhancePrompt(ctx context.Context, prompt string) (string, error) {
	apiKey, err := s.requireCredential()
	if err != nil {
		return "", err
	}

	g := s.generators[KindEnhance]
	token, err := g.begin("Enhancing your prompt...")
	if err != nil {
		return "", err
	}

	enhanced, err := s.backend.EnhanceText(ctx, apiKey, prompts.EnhanceSystemInstruction, prompt)
	g.finish(token, err)
	return enhanced, err
}

// Upscale は既存アセットを高解像度版に差し替えます。ID・プロンプト・
// 作成日時・お気に入りは維持されます。
func (s *Studio) Upscale(ctx context.Context, assetID string) (domain.GeneratedAsset, error) {
	apiKey, err := s.requireCredential()
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	g := s.generators[KindUpscale]
	token, err := g.begin("Upscaling your image...")
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	asset, err := s.upscale(ctx, apiKey, assetID)
	g.finish(token, err)
	return asset, err
}

func (s *Studio) upscale(ctx context.Context, apiKey, assetID string) (domain.GeneratedAsset, error) {
	asset, ok := s.gallery.Get(assetID)
	if !ok {
		return domain.GeneratedAsset{}, fmt.Errorf("%w: アセット '%s'", domain.ErrNotFound, assetID)
	}
	if asset.Kind != domain.AssetImage {
		return domain.GeneratedAsset{}, fmt.Errorf("アセット '%s' は画像ではないためアップスケールできません", assetID)
	}

	payload := domain.ImagePayload{Data: asset.Data, MimeType: asset.MimeType}
	result, err := s.backend.EditImage(ctx, apiKey, prompts.UpscaleInstruction, []domain.ImagePayload{payload}, "")
	if err != nil {
		return domain.GeneratedAsset{}, err
	}

	if err := s.gallery.UpdateData(assetID, result.Data, result.MimeType); err != nil {
		return domain.GeneratedAsset{}, err
	}
	updated, _ := s.gallery.Get(assetID)
	return updated, nil
}
