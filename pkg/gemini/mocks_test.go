package gemini

import (
	"context"
	"net/http"
)

// mockFetcher は httpkit.Requester を実装します。
type mockFetcher struct {
	fetchFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *mockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return m.fetchFunc(ctx, url)
}

// インターフェースを満たすための空実装群なのだ
func (m *mockFetcher) DoRequest(req *http.Request) ([]byte, error) {
	return nil, nil
}

func (m *mockFetcher) FetchAndDecodeJSON(ctx context.Context, url string, v any) error {
	return nil
}

func (m *mockFetcher) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return nil, nil
}

func (m *mockFetcher) PostRawBodyAndFetchBytes(ctx context.Context, url string, body []byte, contentType string) ([]byte, error) {
	return nil, nil
}
