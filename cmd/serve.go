package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shouni/go-persona-studio/internal/builder"
	"github.com/shouni/go-persona-studio/internal/config"
)

// serveCmd は、ペルソナスタジオのHTTP APIサーバーを起動するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "HTTP APIサーバーを起動しますなのだ。",
	Long: `セッションごとの作業状態を保持するAPIサーバーを起動するのだ。
APIキーはセッションごとに /api/credential で登録するのだよ。`,
	RunE: serveCommand,
}

func serveCommand(cmd *cobra.Command, args []string) error {
	// 環境変数から基本設定をロードするのだ
	cfg := config.LoadConfig()
	cfg.Options = opts
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}
	cfg.Options.Addr = cfg.Addr

	slog.Info("ペルソナスタジオを起動するのだ！",
		"addr", cfg.Addr,
		"poll_interval", cfg.Options.PollInterval,
		"session_ttl", cfg.Options.SessionTTL)

	app, err := builder.NewAppContext(cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの初期化に失敗したのだ: %w", err)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("サーバーの実行中にエラーが発生したのだ: %w", err)
	}
	return nil
}
