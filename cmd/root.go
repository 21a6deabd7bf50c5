package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-persona-studio/internal/config"
)

// opts は CLI フラグで上書きされる実行時パラメータなのだ。
var opts config.ServeOptions

// rootCmd は、アプリケーションのルートコマンドなのだ。
// サブコマンドなしで実行された場合は serve と同じ動作をするのだよ。
var rootCmd = &cobra.Command{
	Use:   "persona-studio",
	Short: "キャラクターの一貫性を保った画像・動画生成スタジオのAPIサーバーなのだ。",
	Long: `プロフィールと参照画像からキャラクターを定義し、アイデンティティを保った
画像編集・スタイル転写・グループ合成・動画生成を行うHTTP APIサーバーなのだ。`,
	RunE: serveCommand,
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&opts.Addr, "addr", "a", config.DefaultAddr, "リッスンするアドレスなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", config.DefaultHTTPTimeout, "外部APIリクエストのタイムアウトなのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.PollInterval, "poll-interval", config.DefaultPollInterval, "動画オペレーションの照会間隔なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.RateInterval, "rate-interval", config.DefaultRateInterval, "外向きAPI呼び出しのレート間隔なのだ。")
	rootCmd.PersistentFlags().DurationVar(&opts.SessionTTL, "session-ttl", config.DefaultSessionTTL, "無操作セッションを破棄するまでの時間なのだ。")
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
