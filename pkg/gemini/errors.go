package gemini

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/shouni/go-persona-studio/pkg/domain"
)

// apiErrorBody は Gemini API が非 2xx 応答で返すエラー封筒です。
type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// mapAPIError は HTTP ステータスとレスポンスボディをドメインの
// エラー分類へ変換します。分類できないものは ServiceError に包みます。
func mapAPIError(statusCode int, body []byte) error {
	var envelope apiErrorBody
	message := strings.TrimSpace(string(body))
	status := ""
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		message = envelope.Error.Message
		status = envelope.Error.Status
	}

	switch {
	case statusCode == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%w: %s", domain.ErrQuotaExceeded, message)
	case strings.Contains(message, "API key not valid"):
		return fmt.Errorf("%w: %s", domain.ErrInvalidCredential, message)
	case strings.Contains(message, "only accessible to billed users"):
		return fmt.Errorf("%w: %s", domain.ErrBillingRequired, message)
	default:
		return &domain.ServiceError{StatusCode: statusCode, Message: message}
	}
}

// isTerminalPollError はポーリング継続が無意味なエラーかどうかを判定します。
// 認証・クォータ・課金の失敗は再試行しても回復しません。
func isTerminalPollError(err error) bool {
	for _, target := range []error{
		domain.ErrInvalidCredential,
		domain.ErrQuotaExceeded,
		domain.ErrBillingRequired,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
