package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/pack"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		handler        echo.HandlerFunc
		expectedStatus int
		wantErr        error
	}{
		{
			name:           "正常系: 成功したリクエスト",
			handler:        ok,
			expectedStatus: http.StatusOK,
		},
		{
			name: "正常系: 認証済みアカウント付きのリクエスト",
			handler: func(c echo.Context) error {
				SetInvocation(c, access.Invocation{Sender: "alice", Origin: "alice"})
				return c.NoContent(http.StatusCreated)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "異常系: ハンドラーのエラーはそのまま返す",
			handler: func(c echo.Context) error {
				return pack.ErrPackNotFound
			},
			expectedStatus: http.StatusOK,
			wantErr:        pack.ErrPackNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/packs", nil)
			rec, err := serve(LoggingMiddleware(newTestLogger()), req, tt.handler)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
