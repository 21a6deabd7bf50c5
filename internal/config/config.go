package config

import (
	"time"

	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	DefaultAddr         = ":8787"
	DefaultBaseURL      = "https://generativelanguage.googleapis.com"
	DefaultHTTPTimeout  = 120 * time.Second
	DefaultPollInterval = 10 * time.Second // 動画オペレーションの照会間隔
	DefaultRateInterval = 2 * time.Second  // 外向きAPI呼び出しのレート間隔
	DefaultSessionTTL   = 2 * time.Hour    // 無操作セッションの破棄までの時間
)

// Config はアプリケーション全体の環境設定を保持する構造体なのだ。
type Config struct {
	Addr         string
	GeminiAPIKey string // 事前シード用。通常はセッションごとにキーを登録する
	BaseURL      string

	Options ServeOptions
}

// LoadConfig は環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	cfg := &Config{
		Addr:         envutil.GetEnv("PERSONA_STUDIO_ADDR", DefaultAddr),
		GeminiAPIKey: envutil.GetEnv("GEMINI_API_KEY", ""),
		BaseURL:      envutil.GetEnv("GEMINI_BASE_URL", DefaultBaseURL),
	}
	return cfg
}

// ServeOptions は CLI フラグから渡される実行時のパラメータなのだ。
type ServeOptions struct {
	Addr string // --addr

	// 実行制御
	HTTPTimeout  time.Duration // --http-timeout
	PollInterval time.Duration // --poll-interval: 動画オペレーションの照会間隔
	RateInterval time.Duration // --rate-interval
	SessionTTL   time.Duration // --session-ttl
}
