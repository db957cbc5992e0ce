package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"pack-vault/internal/domain/errkind"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

// LoggingMiddleware アクセスログを出力するミドルウェア
// ErrorHandlerMiddlewareより外側に置くと、エラーはレスポンス済みの状態で届く
func LoggingMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			fields := map[string]interface{}{
				"method":      req.Method,
				"path":        req.URL.Path,
				"route":       c.Path(),
				"status_code": c.Response().Status,
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  c.Response().Header().Get(echo.HeaderXRequestID),
				"remote_addr": c.RealIP(),
			}
			if account, ok := c.Get(contextKeyAccount).(string); ok {
				fields["account"] = account
			}

			if err != nil {
				fields["kind"] = errkind.Kind(err)
				logger.Error(req.Context(), "HTTP request failed", err, fields)
			} else {
				logger.Info(req.Context(), "HTTP request completed", fields)
			}

			return err
		}
	}
}
