package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	adminapp "pack-vault/internal/application/admin"
)

// AdminHandler 管理API用ハンドラー
type AdminHandler struct {
	adminService *adminapp.AdminApplicationService
}

// NewAdminHandler 新しいAdminHandlerを作成
func NewAdminHandler(adminService *adminapp.AdminApplicationService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GrantRole ロール付与ハンドラー
// @Summary ロールを付与（管理API）
// @Description ゼロアドレスに asset / transfer を付与すると全員に許可されます
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body RoleRequest true "ロール操作リクエスト"
// @Success 200 {object} RoleResponse "付与成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/roles/grant [post]
func (h *AdminHandler) GrantRole(c echo.Context) error {
	var reqBody RoleRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.adminService.GrantRole(c.Request().Context(), &adminapp.RoleRequest{
		Role:    reqBody.Role,
		Account: reqBody.Account,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RoleResponse(*resp))
}

// RevokeRole ロール剥奪ハンドラー
// @Summary ロールを剥奪（管理API）
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body RoleRequest true "ロール操作リクエスト"
// @Success 200 {object} RoleResponse "剥奪成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Router /admin/roles/revoke [post]
func (h *AdminHandler) RevokeRole(c echo.Context) error {
	var reqBody RoleRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.adminService.RevokeRole(c.Request().Context(), &adminapp.RoleRequest{
		Role:    reqBody.Role,
		Account: reqBody.Account,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RoleResponse(*resp))
}

// HasRole ロール照会ハンドラー
// @Summary ロールの保有状況を取得（管理API）
// @Tags admin
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param role path string true "ロール" example(minter)
// @Param account path string true "アカウント" example(creator)
// @Success 200 {object} RoleResponse "取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Router /admin/roles/{role}/{account} [get]
func (h *AdminHandler) HasRole(c echo.Context) error {
	resp, err := h.adminService.HasRole(c.Request().Context(), &adminapp.RoleRequest{
		Role:    c.Param("role"),
		Account: c.Param("account"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RoleResponse(*resp))
}

// Pause 一時停止ハンドラー
// @Summary パックの作成・開封・転送を一時停止（管理API）
// @Tags admin
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Success 200 {object} PauseResponse "一時停止成功"
// @Router /admin/pause [post]
func (h *AdminHandler) Pause(c echo.Context) error {
	return h.setPaused(c, true)
}

// Unpause 一時停止解除ハンドラー
// @Summary 一時停止を解除（管理API）
// @Tags admin
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Success 200 {object} PauseResponse "解除成功"
// @Router /admin/unpause [post]
func (h *AdminHandler) Unpause(c echo.Context) error {
	return h.setPaused(c, false)
}

func (h *AdminHandler) setPaused(c echo.Context, paused bool) error {
	resp, err := h.adminService.SetPaused(c.Request().Context(), paused)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PauseResponse{Paused: resp.Paused})
}

// GetPauseState 一時停止状態取得ハンドラー
// @Summary 一時停止状態を取得（管理API）
// @Tags admin
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Success 200 {object} PauseResponse "取得成功"
// @Router /admin/pause [get]
func (h *AdminHandler) GetPauseState(c echo.Context) error {
	resp, err := h.adminService.IsPaused(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PauseResponse{Paused: resp.Paused})
}

// SetPackURI パックURI更新ハンドラー
// @Summary パックのメタデータURIを更新（管理API）
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param pack_id path int true "パックID" example(1)
// @Param request body SetURIRequest true "パックURI更新リクエスト"
// @Success 200 {object} SetURIResponse "更新成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 404 {object} ErrorResponse "パックが存在しない"
// @Router /admin/packs/{pack_id}/uri [put]
func (h *AdminHandler) SetPackURI(c echo.Context) error {
	packID, err := packIDParam(c)
	if err != nil {
		return err
	}

	var reqBody SetURIRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.adminService.SetURI(c.Request().Context(), &adminapp.SetURIRequest{
		PackID: packID,
		URI:    reqBody.URI,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, SetURIResponse{PackID: resp.PackID, URI: resp.URI})
}

// MintAsset 資産発行ハンドラー
// @Summary 台帳に資産を発行（管理API）
// @Description 検証環境でパックの在庫を用意するために使います
// @Tags admin
// @Accept json
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param request body MintAssetRequest true "資産発行リクエスト"
// @Success 200 {object} AssetBalanceResponse "発行成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 409 {object} ErrorResponse "アイテムが既に存在する"
// @Router /admin/assets/mint [post]
func (h *AdminHandler) MintAsset(c echo.Context) error {
	var reqBody MintAssetRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var amount int64
	if reqBody.Amount != "" {
		var err error
		if amount, err = parseAmount(reqBody.Amount); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid amount format")
		}
	}

	resp, err := h.adminService.MintAsset(c.Request().Context(), &adminapp.MintAssetRequest{
		Source: reqBody.Source,
		Kind:   reqBody.Kind,
		To:     reqBody.To,
		ItemID: reqBody.ItemID,
		Amount: amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssetBalanceResponse(resp))
}

// GetAssetBalance 資産残高取得ハンドラー
// @Summary 台帳の残高を取得（管理API）
// @Tags admin
// @Produce json
// @Param X-API-Key header string true "APIキー"
// @Param source path string true "資産ソース" example(gold)
// @Param owner query string true "保有者" example(creator)
// @Param item_id query string false "アイテムID" example(42)
// @Success 200 {object} AssetBalanceResponse "取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Router /admin/assets/{source}/balance [get]
func (h *AdminHandler) GetAssetBalance(c echo.Context) error {
	resp, err := h.adminService.GetAssetBalance(c.Request().Context(), &adminapp.AssetBalanceRequest{
		Source: c.Param("source"),
		ItemID: c.QueryParam("item_id"),
		Owner:  c.QueryParam("owner"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAssetBalanceResponse(resp))
}

// SetNativeRejecting ネイティブ通貨の受け取り拒否設定ハンドラー
// @Summary アカウントがネイティブ通貨を受け取れないかを設定（管理API）
// @Description 拒否するアカウントにはラップ済みトークンで支払われます
// @Tags admin
// @Accept json
// @Param X-API-Key header string true "APIキー"
// @Param account path string true "アカウント" example(contract)
// @Param request body NativeRejectingRequest true "設定リクエスト"
// @Success 204 "設定成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Router /admin/accounts/{account}/native-rejecting [put]
func (h *AdminHandler) SetNativeRejecting(c echo.Context) error {
	var reqBody NativeRejectingRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	err := h.adminService.SetNativeRejecting(c.Request().Context(), &adminapp.NativeRejectingRequest{
		Account:   c.Param("account"),
		Rejecting: reqBody.Rejecting,
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func toAssetBalanceResponse(resp *adminapp.AssetBalanceResponse) AssetBalanceResponse {
	return AssetBalanceResponse{
		Source:  resp.Source,
		ItemID:  resp.ItemID,
		Owner:   resp.Owner,
		Balance: formatAmount(resp.Balance),
	}
}
