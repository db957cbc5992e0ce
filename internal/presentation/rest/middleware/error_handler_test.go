package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/errkind"
	"pack-vault/internal/domain/pack"
	"pack-vault/internal/domain/receipt"
	"pack-vault/internal/domain/transaction"
)

func TestErrorHandlerMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "正常系: エラーなし",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "異常系: 検証エラー",
			err:            pack.ErrNothingToPack,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "validation_error",
		},
		{
			name:           "異常系: 権限エラー",
			err:            access.ErrMissingRole,
			expectedStatus: http.StatusForbidden,
			expectedError:  "authorization_error",
		},
		{
			name:           "異常系: パックが存在しない",
			err:            fmt.Errorf("failed to open pack: %w", pack.ErrPackNotFound),
			expectedStatus: http.StatusNotFound,
			expectedError:  "not_found",
		},
		{
			name:           "異常系: 状態エラー",
			err:            receipt.ErrInsufficientShares,
			expectedStatus: http.StatusConflict,
			expectedError:  "state_error",
		},
		{
			name:           "異常系: 再入呼び出し",
			err:            transaction.ErrReentrantCall,
			expectedStatus: http.StatusConflict,
			expectedError:  "state_error",
		},
		{
			name:           "異常系: 状態エラーが原因の転送失敗",
			err:            fmt.Errorf("%w: %w", errkind.ErrTransferFailed, receipt.ErrInsufficientShares),
			expectedStatus: http.StatusBadGateway,
			expectedError:  "transfer_failure",
		},
		{
			name:           "異常系: 不変条件違反",
			err:            fmt.Errorf("%w: target out of range", errkind.ErrInternalInvariant),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_invariant_violation",
		},
		{
			name:           "異常系: EchoのHTTPエラー",
			err:            echo.NewHTTPError(http.StatusBadRequest, "invalid request body"),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Bad Request",
		},
		{
			name:           "異常系: 分類なし",
			err:            errors.New("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "internal_server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/packs/1", nil)
			rec, err := serve(ErrorHandlerMiddleware(newTestLogger()), req, func(c echo.Context) error {
				if tt.err != nil {
					return tt.err
				}
				return ok(c)
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, rec.Code)

			if tt.err != nil {
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, tt.expectedError, body.Error)
			}
		})
	}
}
