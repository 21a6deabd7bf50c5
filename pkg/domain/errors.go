package domain

import (
	"errors"
	"fmt"
)

// 生成処理のエラー分類です。すべてジェネレーターの状態スロットに収束し、
// グローバルハンドラーへは伝播しません（ジェネレーター間は隔離されます）。
var (
	// ErrMissingCredential は API キー未設定のまま生成を試みた場合の前提条件エラーです。
	ErrMissingCredential = errors.New("API key is missing")
	// ErrInvalidCredential は無効・期限切れのキーが拒否された場合のエラーです。
	ErrInvalidCredential = errors.New("API key is invalid")
	// ErrQuotaExceeded は無料枠や利用上限を超過した場合のエラーです。
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrBillingRequired は課金が有効なプロジェクトのキーが必要な操作のエラーです。
	ErrBillingRequired = errors.New("billing required")
	// ErrNoImageReturned はサービスが画像を返さなかった場合の終端エラーです。
	ErrNoImageReturned = errors.New("no image returned")
	// ErrNoResultLink は動画生成が完了したのにダウンロードリンクが無い場合のエラーです。
	ErrNoResultLink = errors.New("no download link in completed operation")
	// ErrDownloadFailed は完了後の動画バイナリ取得に失敗した場合のエラーです。
	ErrDownloadFailed = errors.New("failed to download generated video")
	// ErrNoContentRef はコンテンツ参照が未選択のまま編集を試みた場合のエラーです。
	ErrNoContentRef = errors.New("no content reference selected")
	// ErrGroupSize はグループ合成のメンバー数が 2〜10 の範囲外の場合のエラーです。
	ErrGroupSize = errors.New("group photo requires 2 to 10 member images")
	// ErrBusy は同一ジェネレーターで処理中に再ディスパッチした場合のエラーです。
	ErrBusy = errors.New("generation already in progress")
	// ErrNotFound は存在しない参照画像・アセットを指定した場合のエラーです。
	ErrNotFound = errors.New("not found")
)

// ServiceError は上記の分類に当てはまらないサービス側の失敗を包むエラーです。
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("service error (HTTP %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("service error: %s", e.Message)
}

// UserMessage はエラーを UI に表示する文言へ変換します。
// クォータ超過は課金アップグレードの案内を含む別文言に分岐します。
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "API Key is missing. Please add one in settings."
	case errors.Is(err, ErrInvalidCredential):
		return "The provided API key is invalid. Please check the key and try again."
	case errors.Is(err, ErrBillingRequired):
		return "This action requires a premium API. To use it, please enable billing on your Google Cloud project and use a new API key from that project in the settings."
	case errors.Is(err, ErrQuotaExceeded):
		return "You've exceeded the free tier quota for your API key. To continue, please enable billing on your Google Cloud project associated with this key. This will grant you higher usage limits."
	default:
		return err.Error()
	}
}
