package builder

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shouni/go-http-kit/httpkit"
	"golang.org/x/time/rate"

	"github.com/shouni/go-persona-studio/internal/config"
	"github.com/shouni/go-persona-studio/internal/server"
	"github.com/shouni/go-persona-studio/internal/session"
	"github.com/shouni/go-persona-studio/pkg/editing"
	"github.com/shouni/go-persona-studio/pkg/gemini"
	"github.com/shouni/go-persona-studio/pkg/prompts"
	"github.com/shouni/go-persona-studio/pkg/studio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを1箇所で構築することで、依存関係の注入を簡素化します。
type AppContext struct {
	Config   *config.Config      // Configは、環境変数から読み込まれたグローバルな設定です
	Options  config.ServeOptions // Optionsは、コマンドラインから渡された実行時の設定です
	Sessions *session.Store      // Sessionsは、ブラウザセッションごとの作業状態のストアです
	Server   *server.Server      // Serverは、HTTP APIの本体です

	httpClient httpkit.Requester // httpClient は外部APIとの通信に使う共通クライアント
	aiClient   *gemini.Client          // aiClient はGeminiの通信に使う共通クライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(cfg *config.Config) (*AppContext, error) {
	httpClient := httpkit.New(cfg.Options.HTTPTimeout)

	aiClient := gemini.New(gemini.Options{
		BaseURL:      cfg.BaseURL,
		HTTPClient:   &http.Client{Timeout: cfg.Options.HTTPTimeout},
		Fetcher:      httpClient,
		Limiter:      rate.NewLimiter(rate.Every(cfg.Options.RateInterval), 2),
		PollInterval: cfg.Options.PollInterval,
		Logger:       slog.Default(),
	})

	composer, err := prompts.NewComposer()
	if err != nil {
		return nil, fmt.Errorf("プロンプトコンポーザーの初期化に失敗しました: %w", err)
	}
	rasterizer := editing.NewRasterizer()

	factory := func() (*studio.Studio, error) {
		st, err := studio.New(aiClient, composer, rasterizer)
		if err != nil {
			return nil, err
		}
		if cfg.GeminiAPIKey != "" {
			st.SeedCredential(cfg.GeminiAPIKey)
		}
		return st, nil
	}

	sessions, err := session.NewStore(cfg.Options.SessionTTL, factory)
	if err != nil {
		return nil, fmt.Errorf("セッションストアの初期化に失敗しました: %w", err)
	}

	srv, err := server.New(sessions, httpClient, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("サーバーの初期化に失敗しました: %w", err)
	}

	return &AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Sessions:   sessions,
		Server:     srv,
		httpClient: httpClient,
		aiClient:   aiClient,
	}, nil
}

// Run はHTTPサーバーを起動し、停止までブロックします。
func (a *AppContext) Run() error {
	return a.Server.Start(a.Options.Addr)
}
