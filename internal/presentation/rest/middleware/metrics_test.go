package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pack-vault/internal/domain/errkind"
	"pack-vault/internal/domain/pack"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

func TestMetricsMiddleware(t *testing.T) {
	metrics, err := otelinfra.NewMetrics("test-meter")
	require.NoError(t, err)

	tests := []struct {
		name    string
		handler echo.HandlerFunc
		wantErr error
	}{
		{
			name:    "正常系: 成功したリクエスト",
			handler: ok,
		},
		{
			name: "正常系: エラーレスポンス",
			handler: func(c echo.Context) error {
				return c.NoContent(http.StatusConflict)
			},
		},
		{
			name: "異常系: ハンドラーのエラーはそのまま返す",
			handler: func(c echo.Context) error {
				return pack.ErrPackNotFound
			},
			wantErr: pack.ErrPackNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/packs/1/open", nil)
			_, err := serve(MetricsMiddleware(metrics), req, tt.handler)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestErrorClass(t *testing.T) {
	tests := []struct {
		status int
		want   string
	}{
		{status: http.StatusBadRequest, want: "validation_error"},
		{status: http.StatusUnauthorized, want: "authorization_error"},
		{status: http.StatusForbidden, want: "authorization_error"},
		{status: http.StatusNotFound, want: "not_found"},
		{status: http.StatusConflict, want: "state_error"},
		{status: http.StatusBadGateway, want: "transfer_failure"},
		{status: http.StatusServiceUnavailable, want: "server_error"},
		{status: http.StatusTooManyRequests, want: "client_error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("正常系: %d", tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, errorClass(tt.status))
		})
	}
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusBadGateway, StatusCode(fmt.Errorf("%w: %w", errkind.ErrTransferFailed, pack.ErrPackNotFound)))
	assert.Equal(t, http.StatusNotFound, StatusCode(pack.ErrPackNotFound))
	assert.Equal(t, 0, StatusCode(errors.New("boom")))
}
