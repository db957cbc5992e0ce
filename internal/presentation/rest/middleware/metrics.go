package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

// MetricsMiddleware リクエスト数・応答時間・エラー数を記録するミドルウェア
func MetricsMiddleware(metrics *otelinfra.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			ctx := c.Request().Context()

			err := next(c)

			metrics.RecordRequest(ctx, c.Request().Method, c.Path())
			metrics.RecordResponseTime(ctx, c.Request().Method, c.Path(), time.Since(start).Seconds())

			status := c.Response().Status
			if err != nil {
				if s := StatusCode(err); s != 0 {
					status = s
				} else {
					status = http.StatusInternalServerError
				}
			}
			if status >= http.StatusBadRequest {
				metrics.RecordError(ctx, errorClass(status))
			}

			return err
		}
	}
}

// errorClass ステータスコードをエラー種別に変換
func errorClass(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "authorization_error"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "state_error"
	case http.StatusBadGateway:
		return "transfer_failure"
	}
	if status >= http.StatusInternalServerError {
		return "server_error"
	}
	return "client_error"
}
