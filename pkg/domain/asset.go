package domain

import "time"

// AssetKind は生成アセットの種別です。
type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

// GeneratedAsset は生成オーケストレーターが成功時に作成する不変のレコードです。
// IsFavorite フラグと、アップスケールによる Data の差し替え以外は変更されません。
type GeneratedAsset struct {
	ID         string    `json:"id"`
	Kind       AssetKind `json:"kind"`
	Data       []byte    `json:"-"`
	MimeType   string    `json:"mime_type"`
	Prompt     string    `json:"prompt"` // 画像は入力された指示文、動画と集合写真は合成済みプロンプト
	CreatedAt  time.Time `json:"created_at"`
	IsFavorite bool      `json:"is_favorite"`
}

// GenerationStatus はジェネレーターインスタンスの状態です。
type GenerationStatus string

const (
	StatusIdle    GenerationStatus = "idle"
	StatusLoading GenerationStatus = "loading"
	StatusError   GenerationStatus = "error"
)

// GenerationState はジェネレーターごとに1つ保持される状態スロットです。
// Message は Loading 中の進捗文字列、または Error 時の人間向けメッセージです。
type GenerationState struct {
	Status  GenerationStatus `json:"status"`
	Message string           `json:"message"`
}
