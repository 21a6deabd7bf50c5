package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shouni/go-persona-studio/internal/session"
	"github.com/shouni/go-persona-studio/pkg/domain"
)

// httpError はドメインエラーを HTTP ステータスへ変換します。
// レスポンス本文の文言は domain.UserMessage に従います。
func httpError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, session.ErrNotFound):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrMissingCredential), errors.Is(err, domain.ErrInvalidCredential):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrBillingRequired):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrQuotaExceeded):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrGroupSize), errors.Is(err, domain.ErrNoContentRef):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	}
	return echo.NewHTTPError(status, domain.UserMessage(err))
}
