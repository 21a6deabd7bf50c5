// Package gemini は Gemini REST API の薄いクライアントを提供します。
// SDK を介さず net/http で直接叩くことで、課金・クォータ・キー無効といった
// エラー分類をレスポンスボディから正確に行います。
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shouni/go-http-kit/httpkit"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/shouni/go-persona-studio/pkg/domain"
)

const (
	modelText  = "gemini-2.5-flash"
	modelImage = "gemini-2.5-flash-image-preview"
	modelVideo = "veo-2.0-generate-001"
)

const (
	defaultBaseURL      = "https://generativelanguage.googleapis.com"
	defaultAPIVersion   = "v1beta"
	defaultPollInterval = 10 * time.Second

	// validationTTL はキー検証結果をキャッシュする期間です。
	validationTTL = 30 * time.Minute
)

// enhancePromptFormat はプロンプト強化でユーザー入力を包む定型です。
const enhancePromptFormat = "Original prompt: %q\n\nEnhanced prompt:"

// Options は Client の構築パラメータです。ゼロ値のフィールドには
// 既定値が補われます。
type Options struct {
	BaseURL      string
	APIVersion   string
	HTTPClient   *http.Client
	Fetcher      httpkit.Requester
	Limiter      *rate.Limiter
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Client は Gemini / Veo への REST クライアントです。API キーは
// セッションごとに異なるため、フィールドではなく各メソッドの引数で受け取ります。
type Client struct {
	baseURL      string
	apiVersion   string
	httpClient   *http.Client
	fetcher      httpkit.Requester
	limiter      *rate.Limiter
	pollInterval time.Duration
	logger       *slog.Logger

	// キー検証は同一キーへの並行呼び出しを singleflight で集約し、
	// 成功結果を TTL キャッシュします。
	validated     *cache.Cache
	validateGroup singleflight.Group
}

// New は Client を初期化します。
func New(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	apiVersion := strings.TrimSpace(opts.APIVersion)
	if apiVersion == "" {
		apiVersion = defaultAPIVersion
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		baseURL:      baseURL,
		apiVersion:   apiVersion,
		httpClient:   httpClient,
		fetcher:      opts.Fetcher,
		limiter:      opts.Limiter,
		pollInterval: pollInterval,
		logger:       logger,
		validated:    cache.New(validationTTL, time.Hour),
	}
}

// ValidateKey は API キーの有効性を軽量な生成呼び出しで確認します。
// 成功結果はキャッシュされ、同一キーへの並行検証は1回に集約されます。
// nil を返せば有効です。
func (c *Client) ValidateKey(ctx context.Context, apiKey string) error {
	if strings.TrimSpace(apiKey) == "" {
		return domain.ErrMissingCredential
	}
	if _, ok := c.validated.Get(apiKey); ok {
		return nil
	}

	_, err, _ := c.validateGroup.Do(apiKey, func() (any, error) {
		req := generateContentRequest{
			Contents: []content{{Role: "user", Parts: []part{{Text: "test"}}}},
			GenerationConfig: &generationConfig{
				ThinkingConfig: &thinkingConfig{ThinkingBudget: 0},
			},
		}
		_, err := c.generateContent(ctx, apiKey, modelText, req)
		if err == nil {
			c.validated.Set(apiKey, struct{}{}, cache.DefaultExpiration)
		}
		return nil, err
	})
	return err
}

// EnhanceText はユーザープロンプトを写実性重視の詳細なプロンプトへ強化します。
func (c *Client) EnhanceText(ctx context.Context, apiKey, systemInstruction, prompt string) (string, error) {
	req := generateContentRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: fmt.Sprintf(enhancePromptFormat, prompt)}},
		}},
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		GenerationConfig: &generationConfig{
			Temperature: 0.8,
			TopP:        0.95,
		},
	}

	resp, err := c.generateContent(ctx, apiKey, modelText, req)
	if err != nil {
		return "", err
	}

	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return "", &domain.ServiceError{Message: "empty enhancement response"}
	}
	return strings.TrimSpace(text), nil
}

// EditImage は参照画像とプロンプトから画像を生成します。
// パート順序は画像が先、テキストが最後です。応答に画像が含まれない場合は
// domain.ErrNoImageReturned を返します。
func (c *Client) EditImage(ctx context.Context, apiKey, prompt string, images []domain.ImagePayload, aspectRatio string) (domain.ImagePayload, error) {
	parts := make([]part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, part{InlineData: &blob{Data: img.Data, MimeType: img.MimeType}})
	}
	parts = append(parts, part{Text: prompt})

	cfg := &generationConfig{ResponseModalities: []string{"IMAGE", "TEXT"}}
	if aspectRatio != "" {
		cfg.ImageConfig = &imageConfig{AspectRatio: aspectRatio}
	}

	req := generateContentRequest{
		Contents:         []content{{Role: "user", Parts: parts}},
		GenerationConfig: cfg,
	}

	resp, err := c.generateContent(ctx, apiKey, modelImage, req)
	if err != nil && cfg.ImageConfig != nil && isUnknownFieldError(err, "imageConfig") {
		cfg.ImageConfig = nil
		resp, err = c.generateContent(ctx, apiKey, modelImage, req)
	}
	if err != nil {
		return domain.ImagePayload{}, err
	}

	result, ok := extractImage(resp)
	if !ok {
		return domain.ImagePayload{}, domain.ErrNoImageReturned
	}
	return result, nil
}

// SynthesizeGroupPhoto は複数メンバーの参照画像から1枚の集合写真を合成します。
// メンバー数は 2〜10 の範囲でなければなりません。
func (c *Client) SynthesizeGroupPhoto(ctx context.Context, apiKey, prompt string, images []domain.ImagePayload) (domain.ImagePayload, error) {
	if len(images) < 2 || len(images) > 10 {
		return domain.ImagePayload{}, domain.ErrGroupSize
	}
	return c.EditImage(ctx, apiKey, prompt, images, "")
}

// generateContent は generateContent エンドポイントへの共通呼び出しです。
// レートリミッターを通過してから送信し、非 2xx はドメインエラーへ変換します。
func (c *Client) generateContent(ctx context.Context, apiKey, model string, payload generateContentRequest) (generateContentResponse, error) {
	url := fmt.Sprintf("%s/%s/models/%s:generateContent", c.baseURL, c.apiVersion, model)
	raw, err := c.post(ctx, apiKey, url, payload)
	if err != nil {
		return generateContentResponse{}, err
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return generateContentResponse{}, fmt.Errorf("レスポンスのデコードに失敗しました: %w", err)
	}
	return decoded, nil
}

func (c *Client) post(ctx context.Context, apiKey, url string, payload any) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("レートリミッターの待機に失敗しました: %w", err)
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("リクエストのエンコードに失敗しました: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	httpReq.Header.Set("content-type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	return c.do(httpReq)
}

func (c *Client) get(ctx context.Context, apiKey, url string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("リクエストの作成に失敗しました: %w", err)
	}
	httpReq.Header.Set("x-goog-api-key", apiKey)

	return c.do(httpReq)
}

func (c *Client) do(httpReq *http.Request) ([]byte, error) {
	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("リクエストの送信に失敗しました: %w", err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスの読み取りに失敗しました: %w", err)
	}

	c.logger.Debug("gemini API 呼び出し",
		slog.String("url", httpReq.URL.Path),
		slog.Int("status", httpResp.StatusCode),
		slog.Duration("elapsed", time.Since(start)),
	)

	if httpResp.StatusCode >= 400 {
		return nil, mapAPIError(httpResp.StatusCode, raw)
	}
	return raw, nil
}

// extractText は最初の候補からテキストパートを連結して返します。
func extractText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// extractImage は最初の候補から最初の inlineData を取り出します。
func extractImage(resp generateContentResponse) (domain.ImagePayload, bool) {
	if len(resp.Candidates) == 0 {
		return domain.ImagePayload{}, false
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return domain.ImagePayload{Data: p.InlineData.Data, MimeType: p.InlineData.MimeType}, true
		}
	}
	return domain.ImagePayload{}, false
}

func isUnknownFieldError(err error, field string) bool {
	message := err.Error()
	return strings.Contains(message, "Unknown name") && strings.Contains(message, field)
}
