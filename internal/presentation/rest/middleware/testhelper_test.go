package middleware

import (
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/trace/noop"

	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

func newTestLogger() *otelinfra.Logger {
	return otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test"))
}

// serve ミドルウェアを通してハンドラーを1回実行する
func serve(mw echo.MiddlewareFunc, req *http.Request, h echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(req.URL.Path)
	err := mw(h)(c)
	return rec, err
}

func ok(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
