package studio

import (
	"context"
	"sync/atomic"

	"github.com/shouni/go-persona-studio/pkg/domain"
	"github.com/shouni/go-persona-studio/pkg/editing"
	"github.com/shouni/go-persona-studio/pkg/gemini"
)

// mockBackend は Backend を実装します。
type mockBackend struct {
	validateFunc func(ctx context.Context, apiKey string) error
	enhanceFunc  func(ctx context.Context, apiKey, system, prompt string) (string, error)
	editFunc     func(ctx context.Context, apiKey, prompt string, images []domain.ImagePayload, aspectRatio string) (domain.ImagePayload, error)
	groupFunc    func(ctx context.Context, apiKey, prompt string, images []domain.ImagePayload) (domain.ImagePayload, error)
	videoFunc    func(ctx context.Context, apiKey, prompt string, ref *domain.ImagePayload, onProgress gemini.ProgressFunc) (domain.ImagePayload, error)

	editCalls  atomic.Int32
	groupCalls atomic.Int32
}

func (m *mockBackend) ValidateKey(ctx context.Context, apiKey string) error {
	if m.validateFunc != nil {
		return m.validateFunc(ctx, apiKey)
	}
	return nil
}

func (m *mockBackend) EnhanceText(ctx context.Context, apiKey, system, prompt string) (string, error) {
	if m.enhanceFunc != nil {
		return m.enhanceFunc(ctx, apiKey, system, prompt)
	}
	return "enhanced: " + prompt, nil
}

func (m *mockBackend) EditImage(ctx context.Context, apiKey, prompt string, images []domain.ImagePayload, aspectRatio string) (domain.ImagePayload, error) {
	m.editCalls.Add(1)
	if m.editFunc != nil {
		return m.editFunc(ctx, apiKey, prompt, images, aspectRatio)
	}
	return domain.ImagePayload{Data: []byte("generated"), MimeType: "image/png"}, nil
}

func (m *mockBackend) SynthesizeGroupPhoto(ctx context.Context, apiKey, prompt string, images []domain.ImagePayload) (domain.ImagePayload, error) {
	m.groupCalls.Add(1)
	if m.groupFunc != nil {
		return m.groupFunc(ctx, apiKey, prompt, images)
	}
	return domain.ImagePayload{Data: []byte("group"), MimeType: "image/png"}, nil
}

func (m *mockBackend) GenerateVideo(ctx context.Context, apiKey, prompt string, ref *domain.ImagePayload, onProgress gemini.ProgressFunc) (domain.ImagePayload, error) {
	if m.videoFunc != nil {
		return m.videoFunc(ctx, apiKey, prompt, ref, onProgress)
	}
	return domain.ImagePayload{Data: []byte("mp4"), MimeType: "video/mp4"}, nil
}

// mockRasterizer は editing.Rasterizer を実装します。
type mockRasterizer struct {
	renderFunc func(data []byte, state editing.EditState) ([]byte, string, error)
}

func (m *mockRasterizer) Render(data []byte, state editing.EditState) ([]byte, string, error) {
	if m.renderFunc != nil {
		return m.renderFunc(data, state)
	}
	return append([]byte("rendered:"), data...), "image/jpeg", nil
}
