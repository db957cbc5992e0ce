package handler

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	packapp "pack-vault/internal/application/pack"
	"pack-vault/internal/domain/access"
	"pack-vault/internal/presentation/grpc/interceptor"
)

// PackHandler gRPCパックサービスハンドラー
type PackHandler struct {
	packService *packapp.PackApplicationService
}

var _ PackServiceServer = (*PackHandler)(nil)

// NewPackHandler 新しいPackHandlerを作成
func NewPackHandler(packService *packapp.PackApplicationService) *PackHandler {
	return &PackHandler{
		packService: packService,
	}
}

// CreatePack パック作成
func (h *PackHandler) CreatePack(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	inv, err := invocation(ctx)
	if err != nil {
		return nil, err
	}

	items, err := listField(req, "contents")
	if err != nil {
		return nil, err
	}
	contents := make([]packapp.ContentInput, 0, len(items))
	for _, item := range items {
		total, err := requiredInt64Field(item, "total_amount")
		if err != nil {
			return nil, err
		}
		perUnit, err := requiredInt64Field(item, "per_unit_amount")
		if err != nil {
			return nil, err
		}
		contents = append(contents, packapp.ContentInput{
			Source:        stringField(item, "source"),
			Kind:          stringField(item, "kind"),
			ItemID:        stringField(item, "item_id"),
			TotalAmount:   total,
			PerUnitAmount: perUnit,
		})
	}

	eligibleAt, err := int64Field(req, "open_eligible_at")
	if err != nil {
		return nil, err
	}
	perOpen, err := requiredInt64Field(req, "reward_units_per_open")
	if err != nil {
		return nil, err
	}

	resp, err := h.packService.CreatePack(ctx, &packapp.CreatePackRequest{
		Invocation:         inv,
		Contents:           contents,
		URI:                stringField(req, "uri"),
		OpenEligibleAt:     eligibleAt,
		RewardUnitsPerOpen: perOpen,
		Recipient:          stringField(req, "recipient"),
	})
	if err != nil {
		return nil, handleError(err)
	}

	return newStruct(map[string]interface{}{
		"pack_id":      resp.PackID,
		"total_supply": formatAmount(resp.TotalSupply),
		"creator":      resp.Creator,
		"recipient":    resp.Recipient,
	})
}

// OpenPack パック開封
func (h *PackHandler) OpenPack(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	inv, err := invocation(ctx)
	if err != nil {
		return nil, err
	}
	packID, err := requiredInt64Field(req, "pack_id")
	if err != nil {
		return nil, err
	}
	shares, err := requiredInt64Field(req, "shares")
	if err != nil {
		return nil, err
	}

	resp, err := h.packService.OpenPack(ctx, &packapp.OpenPackRequest{
		Invocation: inv,
		PackID:     packID,
		Shares:     shares,
	})
	if err != nil {
		return nil, handleError(err)
	}

	return newStruct(map[string]interface{}{
		"pack_id":      resp.PackID,
		"opener":       resp.Opener,
		"shares":       formatAmount(resp.Shares),
		"units":        rewardUnitValues(resp.Units),
		"block_number": resp.BlockNumber,
		"seed":         resp.Seed,
	})
}

// TransferShares シェア転送
func (h *PackHandler) TransferShares(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	inv, err := invocation(ctx)
	if err != nil {
		return nil, err
	}
	packID, err := requiredInt64Field(req, "pack_id")
	if err != nil {
		return nil, err
	}
	amount, err := requiredInt64Field(req, "amount")
	if err != nil {
		return nil, err
	}

	resp, err := h.packService.TransferShares(ctx, &packapp.TransferSharesRequest{
		Invocation: inv,
		PackID:     packID,
		To:         stringField(req, "to"),
		Amount:     amount,
	})
	if err != nil {
		return nil, handleError(err)
	}

	return newStruct(map[string]interface{}{
		"pack_id": resp.PackID,
		"from":    resp.From,
		"to":      resp.To,
		"amount":  formatAmount(resp.Amount),
		"balance": formatAmount(resp.Balance),
	})
}

// GetPack パック情報取得
func (h *PackHandler) GetPack(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	packID, err := requiredInt64Field(req, "pack_id")
	if err != nil {
		return nil, err
	}

	resp, err := h.packService.GetPack(ctx, packID)
	if err != nil {
		return nil, handleError(err)
	}

	return newStruct(map[string]interface{}{
		"pack_id":               resp.PackID,
		"uri":                   resp.URI,
		"open_eligible_at":      resp.OpenEligibleAt,
		"reward_units_per_open": formatAmount(resp.RewardUnitsPerOpen),
		"creator":               resp.Creator,
		"created_at":            resp.CreatedAt.UTC().Format(time.RFC3339),
		"total_supply":          formatAmount(resp.TotalSupply),
		"remaining_units":       formatAmount(resp.RemainingUnits),
		"contents":              contentEntryValues(resp.Contents),
	})
}

// GetPackContents パックの在庫取得
func (h *PackHandler) GetPackContents(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	packID, err := requiredInt64Field(req, "pack_id")
	if err != nil {
		return nil, err
	}

	entries, err := h.packService.GetPackContents(ctx, packID)
	if err != nil {
		return nil, handleError(err)
	}

	return newStruct(map[string]interface{}{
		"pack_id":  packID,
		"contents": contentEntryValues(entries),
	})
}

// TotalSupply 発行済みシェア数取得
func (h *PackHandler) TotalSupply(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	packID, err := requiredInt64Field(req, "pack_id")
	if err != nil {
		return nil, err
	}

	supply, err := h.packService.TotalSupply(ctx, packID)
	if err != nil {
		return nil, handleError(err)
	}

	return newStruct(map[string]interface{}{
		"pack_id":      packID,
		"total_supply": formatAmount(supply),
	})
}

// BalanceOf シェア残高取得
// holder 省略時は呼び出し主体の残高を返す
func (h *PackHandler) BalanceOf(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	packID, err := requiredInt64Field(req, "pack_id")
	if err != nil {
		return nil, err
	}

	holder := stringField(req, "holder")
	if holder == "" {
		inv, err := invocation(ctx)
		if err != nil {
			return nil, err
		}
		holder = h.packService.CallerAccount(inv)
	}

	balance, err := h.packService.BalanceOf(ctx, packID, holder)
	if err != nil {
		return nil, handleError(err)
	}

	return newStruct(map[string]interface{}{
		"pack_id": packID,
		"holder":  holder,
		"balance": formatAmount(balance),
	})
}

// ListEvents パックイベント一覧取得
func (h *PackHandler) ListEvents(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	packID, err := requiredInt64Field(req, "pack_id")
	if err != nil {
		return nil, err
	}
	limit, err := int64Field(req, "limit")
	if err != nil {
		return nil, err
	}
	offset, err := int64Field(req, "offset")
	if err != nil {
		return nil, err
	}

	resp, err := h.packService.ListEvents(ctx, &packapp.ListEventsRequest{
		PackID: packID,
		Limit:  int(limit),
		Offset: int(offset),
	})
	if err != nil {
		return nil, handleError(err)
	}

	events := make([]interface{}, len(resp.Events))
	for i, e := range resp.Events {
		events[i] = map[string]interface{}{
			"event_id":   e.EventID,
			"type":       e.Type,
			"actor":      e.Actor,
			"recipient":  e.Recipient,
			"shares":     formatAmount(e.Shares),
			"units":      rewardUnitValues(e.Units),
			"created_at": e.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	return newStruct(map[string]interface{}{
		"pack_id": packID,
		"events":  events,
		"limit":   resp.Limit,
		"offset":  resp.Offset,
	})
}

func invocation(ctx context.Context) (access.Invocation, error) {
	inv, ok := interceptor.InvocationFromContext(ctx)
	if !ok {
		return access.Invocation{}, status.Error(codes.Unauthenticated, "unauthenticated")
	}
	return inv, nil
}

func rewardUnitValues(units []packapp.RewardUnit) []interface{} {
	out := make([]interface{}, len(units))
	for i, u := range units {
		out[i] = map[string]interface{}{
			"source":  u.Source,
			"kind":    u.Kind,
			"item_id": u.ItemID,
			"amount":  formatAmount(u.Amount),
		}
	}
	return out
}

func contentEntryValues(entries []packapp.ContentEntry) []interface{} {
	out := make([]interface{}, len(entries))
	for i, e := range entries {
		out[i] = map[string]interface{}{
			"source":          e.Source,
			"kind":            e.Kind,
			"item_id":         e.ItemID,
			"total_amount":    formatAmount(e.TotalAmount),
			"per_unit_amount": formatAmount(e.PerUnitAmount),
			"reward_units":    formatAmount(e.RewardUnits),
		}
	}
	return out
}
