package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pack-vault/internal/domain/errkind"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}
			return handleError(c, err, logger)
		}
	}
}

// StatusCode エラー分類に対応するHTTPステータスを返す
// 分類できないエラーは0
func StatusCode(err error) int {
	switch {
	case errors.Is(err, errkind.ErrTransferFailed):
		return http.StatusBadGateway
	case errors.Is(err, errkind.ErrInternalInvariant):
		return http.StatusInternalServerError
	case errors.Is(err, errkind.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errkind.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errkind.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, errkind.ErrState):
		return http.StatusConflict
	default:
		return 0
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	if status := StatusCode(err); status != 0 {
		kind := errkind.Kind(err)
		fields := map[string]interface{}{
			"error": err.Error(),
			"kind":  kind,
			"path":  c.Request().URL.Path,
		}
		if status >= http.StatusInternalServerError {
			logger.Error(ctx, "Request failed", err, fields)
		} else {
			logger.Warn(ctx, "Request rejected", fields)
		}
		return c.JSON(status, ErrorResponse{
			Error:   kind,
			Message: err.Error(),
		})
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
