package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shouni/go-persona-studio/pkg/domain"
)

// videoProgressMessages はポーリングの各周回でユーザーへ流す進捗文言です。
// 周回数に応じて順に切り替わり、末尾に達したら最後の文言を繰り返します。
var videoProgressMessages = []string{
	"Initializing video request...",
	"AI is warming up the cameras...",
	"Directing the scene...",
	"Rendering frames... this can take a few minutes.",
	"Checking on your video's progress...",
	"Still rendering, hang tight...",
}

const videoPollRetryMessage = "Connection hiccup, retrying..."

// ProgressFunc はポーリング中の進捗文言を受け取るコールバックです。
type ProgressFunc func(message string)

// GenerateVideo は Veo の長時間実行オペレーションを開始し、固定間隔で
// 完了までポーリングして動画バイナリを返します。参照画像があれば
// 開始フレームの一貫性維持に使われます。onProgress は nil でも構いません。
func (c *Client) GenerateVideo(ctx context.Context, apiKey, prompt string, ref *domain.ImagePayload, onProgress ProgressFunc) (domain.ImagePayload, error) {
	if onProgress == nil {
		onProgress = func(string) {}
	}
	onProgress(videoProgressMessages[0])

	opName, err := c.submitVideo(ctx, apiKey, prompt, ref)
	if err != nil {
		return domain.ImagePayload{}, err
	}
	c.logger.Info("動画生成オペレーションを開始しました", slog.String("operation", opName))

	op, err := c.pollVideo(ctx, apiKey, opName, onProgress)
	if err != nil {
		return domain.ImagePayload{}, err
	}

	uri := resultURI(op)
	if uri == "" {
		return domain.ImagePayload{}, domain.ErrNoResultLink
	}

	onProgress("Downloading your video...")
	data, err := c.downloadVideo(ctx, apiKey, uri)
	if err != nil {
		return domain.ImagePayload{}, err
	}

	onProgress("Video ready!")
	return domain.ImagePayload{Data: data, MimeType: "video/mp4"}, nil
}

// submitVideo は predictLongRunning エンドポイントへ生成要求を投げ、
// オペレーション名を返します。
func (c *Client) submitVideo(ctx context.Context, apiKey, prompt string, ref *domain.ImagePayload) (string, error) {
	instance := videoInstance{Prompt: prompt}
	if ref != nil {
		instance.Image = &videoImage{
			BytesBase64Encoded: ref.Data,
			MimeType:           ref.MimeType,
		}
	}

	req := videoRequest{
		Instances:  []videoInstance{instance},
		Parameters: &videoParameters{NumberOfVideos: 1},
	}

	url := fmt.Sprintf("%s/%s/models/%s:predictLongRunning", c.baseURL, c.apiVersion, modelVideo)
	raw, err := c.post(ctx, apiKey, url, req)
	if err != nil {
		return "", err
	}

	var op operationResponse
	if err := json.Unmarshal(raw, &op); err != nil {
		return "", fmt.Errorf("オペレーション応答のデコードに失敗しました: %w", err)
	}
	if op.Name == "" {
		return "", &domain.ServiceError{Message: "video operation has no name"}
	}
	return op.Name, nil
}

// pollVideo は完了までオペレーションを固定間隔で照会します。
// 一時的な照会失敗は回数の上限なく再試行し、認証系の失敗は即座に返します。
// 打ち切りは呼び出し側の ctx に委ねます。
func (c *Client) pollVideo(ctx context.Context, apiKey, opName string, onProgress ProgressFunc) (operationResponse, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return operationResponse{}, ctx.Err()
		case <-ticker.C:
		}
		tick++

		op, err := c.fetchOperation(ctx, apiKey, opName)
		if err != nil {
			if isTerminalPollError(err) {
				return operationResponse{}, err
			}
			c.logger.Warn("動画オペレーションの照会に失敗しました。再試行します",
				slog.String("operation", opName), slog.Any("error", err))
			onProgress(videoPollRetryMessage)
			continue
		}

		if op.Done {
			onProgress("Finalizing video render...")
			return op, nil
		}
		onProgress(progressMessage(tick))
	}
}

func (c *Client) fetchOperation(ctx context.Context, apiKey, opName string) (operationResponse, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, strings.TrimLeft(opName, "/"))
	raw, err := c.get(ctx, apiKey, url)
	if err != nil {
		return operationResponse{}, err
	}

	var op operationResponse
	if err := json.Unmarshal(raw, &op); err != nil {
		return operationResponse{}, fmt.Errorf("オペレーション応答のデコードに失敗しました: %w", err)
	}
	return op, nil
}

// downloadVideo は完了済みオペレーションが指す URI から動画バイナリを取得します。
// ダウンロード URI は API キーをクエリパラメータで要求します。
func (c *Client) downloadVideo(ctx context.Context, apiKey, uri string) ([]byte, error) {
	if c.fetcher == nil {
		return nil, fmt.Errorf("%w: fetcher is not configured", domain.ErrDownloadFailed)
	}

	separator := "?"
	if strings.Contains(uri, "?") {
		separator = "&"
	}
	data, err := c.fetcher.FetchBytes(ctx, uri+separator+"key="+apiKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDownloadFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty response body", domain.ErrDownloadFailed)
	}
	return data, nil
}

func resultURI(op operationResponse) string {
	if op.Response == nil || op.Response.GenerateVideoResponse == nil {
		return ""
	}
	samples := op.Response.GenerateVideoResponse.GeneratedSamples
	if len(samples) == 0 {
		return ""
	}
	return samples[0].Video.URI
}

func progressMessage(tick int) string {
	if tick >= len(videoProgressMessages) {
		return videoProgressMessages[len(videoProgressMessages)-1]
	}
	return videoProgressMessages[tick]
}
