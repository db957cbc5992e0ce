package middleware

import (
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware OpenTelemetryトレーシングミドルウェア
func TracingMiddleware() echo.MiddlewareFunc {
	tracer := otel.Tracer("pack-vault-http")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := otel.GetTextMapPropagator().Extract(req.Context(), propagation.HeaderCarrier(req.Header))

			ctx, span := tracer.Start(ctx, req.Method+" "+c.Path(),
				trace.WithSpanKind(trace.SpanKindServer),
			)
			defer span.End()

			span.SetAttributes(
				attribute.String("http.method", req.Method),
				attribute.String("http.route", c.Path()),
				attribute.String("http.user_agent", req.UserAgent()),
				attribute.String("http.request_id", req.Header.Get(echo.HeaderXRequestID)),
			)

			c.SetRequest(req.WithContext(ctx))

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if s := StatusCode(err); s != 0 {
					status = s
				}
				span.RecordError(err)
				span.SetStatus(otelcodes.Error, err.Error())
			}
			span.SetAttributes(attribute.Int("http.status_code", status))
			if account, ok := c.Get(contextKeyAccount).(string); ok {
				span.SetAttributes(attribute.String("pack_vault.account", account))
			}

			return err
		}
	}
}
