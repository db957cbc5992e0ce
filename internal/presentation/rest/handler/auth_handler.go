package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authapp "pack-vault/internal/application/auth"
)

// AuthHandler 認証関連ハンドラー
type AuthHandler struct {
	authService *authapp.AuthApplicationService
}

// NewAuthHandler 新しいAuthHandlerを作成
func NewAuthHandler(authService *authapp.AuthApplicationService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// IssueToken トークン発行ハンドラー
// @Summary アカウントのアクセストークンを発行（管理API）
// @Description sender を指定するとラッパー経由の呼び出しを表すトークンになります
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body IssueTokenRequest true "トークン発行リクエスト"
// @Success 200 {object} IssueTokenResponse "発行成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/tokens [post]
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var reqBody IssueTokenRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.authService.IssueToken(c.Request().Context(), &authapp.IssueTokenRequest{
		Account: reqBody.Account,
		Sender:  reqBody.Sender,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, IssueTokenResponse{
		Token:     resp.Token,
		Account:   resp.Account,
		Sender:    resp.Sender,
		ExpiresIn: int(resp.ExpiresIn),
		TokenType: resp.TokenType,
	})
}
