package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	packapp "pack-vault/internal/application/pack"
	restmiddleware "pack-vault/internal/presentation/rest/middleware"
)

// PackHandler パック関連ハンドラー
type PackHandler struct {
	packService *packapp.PackApplicationService
}

// NewPackHandler 新しいPackHandlerを作成
func NewPackHandler(packService *packapp.PackApplicationService) *PackHandler {
	return &PackHandler{
		packService: packService,
	}
}

// CreatePack パック作成ハンドラー
// @Summary パックを作成
// @Description 資産を保管庫へ預けてパックを作成し、受取人にシェアを発行します
// @Tags packs
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body CreatePackRequest true "パック作成リクエスト"
// @Success 201 {object} CreatePackResponse "パック作成成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "権限エラー"
// @Failure 409 {object} ErrorResponse "一時停止中・再入呼び出し"
// @Failure 502 {object} ErrorResponse "資産転送失敗"
// @Router /packs [post]
func (h *PackHandler) CreatePack(c echo.Context) error {
	inv, ok := restmiddleware.InvocationFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "caller not found in token")
	}

	var reqBody CreatePackRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	perOpen, err := parseAmount(reqBody.RewardUnitsPerOpen)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reward_units_per_open format")
	}

	contents := make([]packapp.ContentInput, 0, len(reqBody.Contents))
	for _, in := range reqBody.Contents {
		total, err := parseAmount(in.TotalAmount)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid total_amount format")
		}
		perUnit, err := parseAmount(in.PerUnitAmount)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid per_unit_amount format")
		}
		contents = append(contents, packapp.ContentInput{
			Source:        in.Source,
			Kind:          in.Kind,
			ItemID:        in.ItemID,
			TotalAmount:   total,
			PerUnitAmount: perUnit,
		})
	}

	resp, err := h.packService.CreatePack(c.Request().Context(), &packapp.CreatePackRequest{
		Invocation:         inv,
		Contents:           contents,
		URI:                reqBody.URI,
		OpenEligibleAt:     reqBody.OpenEligibleAt,
		RewardUnitsPerOpen: perOpen,
		Recipient:          reqBody.Recipient,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, CreatePackResponse{
		PackID:      resp.PackID,
		TotalSupply: formatAmount(resp.TotalSupply),
		Creator:     resp.Creator,
		Recipient:   resp.Recipient,
	})
}

// OpenPack パック開封ハンドラー
// @Summary パックを開封
// @Description シェアを焼却し、抽選された報酬を受け取ります
// @Tags packs
// @Accept json
// @Produce json
// @Security Bearer
// @Param pack_id path int true "パックID" example(1)
// @Param request body OpenPackRequest true "パック開封リクエスト"
// @Success 200 {object} OpenPackResponse "パック開封成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "中継された呼び出し"
// @Failure 404 {object} ErrorResponse "パックが存在しない"
// @Failure 409 {object} ErrorResponse "開封可能時刻前・シェア不足"
// @Failure 502 {object} ErrorResponse "資産転送失敗"
// @Router /packs/{pack_id}/open [post]
func (h *PackHandler) OpenPack(c echo.Context) error {
	inv, ok := restmiddleware.InvocationFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "caller not found in token")
	}

	packID, err := packIDParam(c)
	if err != nil {
		return err
	}

	var reqBody OpenPackRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	shares, err := parseAmount(reqBody.Shares)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid shares format")
	}

	resp, err := h.packService.OpenPack(c.Request().Context(), &packapp.OpenPackRequest{
		Invocation: inv,
		PackID:     packID,
		Shares:     shares,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, OpenPackResponse{
		PackID:      resp.PackID,
		Opener:      resp.Opener,
		Shares:      formatAmount(resp.Shares),
		Units:       toRewardUnitModels(resp.Units),
		BlockNumber: resp.BlockNumber,
		Seed:        resp.Seed,
	})
}

// TransferShares シェア転送ハンドラー
// @Summary シェアを転送
// @Description 保有しているパックのシェアを別のアカウントへ転送します
// @Tags packs
// @Accept json
// @Produce json
// @Security Bearer
// @Param pack_id path int true "パックID" example(1)
// @Param request body TransferSharesRequest true "シェア転送リクエスト"
// @Success 200 {object} TransferSharesResponse "シェア転送成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 403 {object} ErrorResponse "転送制限"
// @Failure 409 {object} ErrorResponse "シェア不足"
// @Router /packs/{pack_id}/transfer [post]
func (h *PackHandler) TransferShares(c echo.Context) error {
	inv, ok := restmiddleware.InvocationFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "caller not found in token")
	}

	packID, err := packIDParam(c)
	if err != nil {
		return err
	}

	var reqBody TransferSharesRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	amount, err := parseAmount(reqBody.Amount)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount format")
	}

	resp, err := h.packService.TransferShares(c.Request().Context(), &packapp.TransferSharesRequest{
		Invocation: inv,
		PackID:     packID,
		To:         reqBody.To,
		Amount:     amount,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, TransferSharesResponse{
		PackID:  resp.PackID,
		From:    resp.From,
		To:      resp.To,
		Amount:  formatAmount(resp.Amount),
		Balance: formatAmount(resp.Balance),
	})
}

// GetPack パック情報取得ハンドラー
// @Summary パック情報を取得
// @Tags packs
// @Produce json
// @Param pack_id path int true "パックID" example(1)
// @Success 200 {object} PackResponse "取得成功"
// @Failure 404 {object} ErrorResponse "パックが存在しない"
// @Router /packs/{pack_id} [get]
func (h *PackHandler) GetPack(c echo.Context) error {
	packID, err := packIDParam(c)
	if err != nil {
		return err
	}

	resp, err := h.packService.GetPack(c.Request().Context(), packID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PackResponse{
		PackID:             resp.PackID,
		URI:                resp.URI,
		OpenEligibleAt:     resp.OpenEligibleAt,
		RewardUnitsPerOpen: formatAmount(resp.RewardUnitsPerOpen),
		Creator:            resp.Creator,
		CreatedAt:          resp.CreatedAt,
		TotalSupply:        formatAmount(resp.TotalSupply),
		RemainingUnits:     formatAmount(resp.RemainingUnits),
		Contents:           toContentEntryModels(resp.Contents),
	})
}

// GetPackContents パック在庫取得ハンドラー
// @Summary パックの在庫を取得
// @Description 読み取り専用で、何度呼んでも状態は変わりません
// @Tags packs
// @Produce json
// @Param pack_id path int true "パックID" example(1)
// @Success 200 {object} PackContentsResponse "取得成功"
// @Failure 404 {object} ErrorResponse "パックが存在しない"
// @Router /packs/{pack_id}/contents [get]
func (h *PackHandler) GetPackContents(c echo.Context) error {
	packID, err := packIDParam(c)
	if err != nil {
		return err
	}

	contents, err := h.packService.GetPackContents(c.Request().Context(), packID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PackContentsResponse{
		PackID:   packID,
		Contents: toContentEntryModels(contents),
	})
}

// GetTotalSupply 発行済みシェア数取得ハンドラー
// @Summary 発行済みシェア数を取得
// @Description 存在しないパックは0を返します
// @Tags packs
// @Produce json
// @Param pack_id path int true "パックID" example(1)
// @Success 200 {object} SupplyResponse "取得成功"
// @Router /packs/{pack_id}/supply [get]
func (h *PackHandler) GetTotalSupply(c echo.Context) error {
	packID, err := packIDParam(c)
	if err != nil {
		return err
	}

	supply, err := h.packService.TotalSupply(c.Request().Context(), packID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SupplyResponse{
		PackID:      packID,
		TotalSupply: formatAmount(supply),
	})
}

// GetShareBalance 保有シェア数取得ハンドラー
// @Summary 保有シェア数を取得
// @Description holder を省略すると自分の保有数を返します
// @Tags packs
// @Produce json
// @Security Bearer
// @Param pack_id path int true "パックID" example(1)
// @Param holder query string false "保有者" example(alice)
// @Success 200 {object} ShareBalanceResponse "取得成功"
// @Router /packs/{pack_id}/balance [get]
func (h *PackHandler) GetShareBalance(c echo.Context) error {
	packID, err := packIDParam(c)
	if err != nil {
		return err
	}

	holder := c.QueryParam("holder")
	if holder == "" {
		inv, ok := restmiddleware.InvocationFrom(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "caller not found in token")
		}
		holder = h.packService.CallerAccount(inv)
	}

	balance, err := h.packService.BalanceOf(c.Request().Context(), packID, holder)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ShareBalanceResponse{
		PackID:  packID,
		Holder:  holder,
		Balance: formatAmount(balance),
	})
}

// ListEvents パックイベント一覧取得ハンドラー
// @Summary パックのイベント履歴を取得
// @Tags packs
// @Produce json
// @Param pack_id path int true "パックID" example(1)
// @Param limit query int false "取得件数（デフォルト: 20, 最大: 100)" default(20)
// @Param offset query int false "オフセット（デフォルト: 0)" default(0)
// @Success 200 {object} EventsResponse "取得成功"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Router /packs/{pack_id}/events [get]
func (h *PackHandler) ListEvents(c echo.Context) error {
	packID, err := packIDParam(c)
	if err != nil {
		return err
	}

	limit, err := intQueryParam(c, "limit")
	if err != nil {
		return err
	}
	offset, err := intQueryParam(c, "offset")
	if err != nil {
		return err
	}

	resp, err := h.packService.ListEvents(c.Request().Context(), &packapp.ListEventsRequest{
		PackID: packID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return err
	}

	events := make([]EventModel, len(resp.Events))
	for i, e := range resp.Events {
		events[i] = EventModel{
			EventID:   e.EventID,
			Type:      e.Type,
			Actor:     e.Actor,
			Recipient: e.Recipient,
			Shares:    formatAmount(e.Shares),
			Units:     toRewardUnitModels(e.Units),
			CreatedAt: e.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, EventsResponse{
		PackID: packID,
		Events: events,
		Limit:  resp.Limit,
		Offset: resp.Offset,
	})
}

func packIDParam(c echo.Context) (int64, error) {
	packID, err := strconv.ParseInt(c.Param("pack_id"), 10, 64)
	if err != nil || packID <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid pack_id")
	}
	return packID, nil
}

func intQueryParam(c echo.Context, name string) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}

// parseAmount 文字列の数量をint64に変換
func parseAmount(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func formatAmount(v int64) string {
	return strconv.FormatInt(v, 10)
}

func toRewardUnitModels(units []packapp.RewardUnit) []RewardUnitModel {
	out := make([]RewardUnitModel, len(units))
	for i, u := range units {
		out[i] = RewardUnitModel{
			Source: u.Source,
			Kind:   u.Kind,
			ItemID: u.ItemID,
			Amount: formatAmount(u.Amount),
		}
	}
	return out
}

func toContentEntryModels(entries []packapp.ContentEntry) []ContentEntryModel {
	out := make([]ContentEntryModel, len(entries))
	for i, e := range entries {
		out[i] = ContentEntryModel{
			Source:        e.Source,
			Kind:          e.Kind,
			ItemID:        e.ItemID,
			TotalAmount:   formatAmount(e.TotalAmount),
			PerUnitAmount: formatAmount(e.PerUnitAmount),
			RewardUnits:   formatAmount(e.RewardUnits),
		}
	}
	return out
}
