package handler

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	adminapp "pack-vault/internal/application/admin"
)

// AdminHandler gRPC管理サービスハンドラー
type AdminHandler struct {
	adminService *adminapp.AdminApplicationService
}

var _ AdminServiceServer = (*AdminHandler)(nil)

// NewAdminHandler 新しいAdminHandlerを作成
func NewAdminHandler(adminService *adminapp.AdminApplicationService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GrantRole ロール付与
func (h *AdminHandler) GrantRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := h.adminService.GrantRole(ctx, &adminapp.RoleRequest{
		Role:    stringField(req, "role"),
		Account: stringField(req, "account"),
	})
	if err != nil {
		return nil, handleError(err)
	}
	return roleStruct(resp)
}

// RevokeRole ロール剥奪
func (h *AdminHandler) RevokeRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := h.adminService.RevokeRole(ctx, &adminapp.RoleRequest{
		Role:    stringField(req, "role"),
		Account: stringField(req, "account"),
	})
	if err != nil {
		return nil, handleError(err)
	}
	return roleStruct(resp)
}

// SetPaused 一時停止状態の切り替え
func (h *AdminHandler) SetPaused(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	resp, err := h.adminService.SetPaused(ctx, boolField(req, "paused"))
	if err != nil {
		return nil, handleError(err)
	}
	return newStruct(map[string]interface{}{
		"paused": resp.Paused,
	})
}

// MintAsset 台帳への資産発行
func (h *AdminHandler) MintAsset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := int64Field(req, "amount")
	if err != nil {
		return nil, err
	}

	resp, err := h.adminService.MintAsset(ctx, &adminapp.MintAssetRequest{
		Source: stringField(req, "source"),
		Kind:   stringField(req, "kind"),
		To:     stringField(req, "to"),
		ItemID: stringField(req, "item_id"),
		Amount: amount,
	})
	if err != nil {
		return nil, handleError(err)
	}
	return newStruct(map[string]interface{}{
		"source":  resp.Source,
		"item_id": resp.ItemID,
		"owner":   resp.Owner,
		"balance": formatAmount(resp.Balance),
	})
}

func roleStruct(resp *adminapp.RoleResponse) (*structpb.Struct, error) {
	return newStruct(map[string]interface{}{
		"role":    resp.Role,
		"account": resp.Account,
		"granted": resp.Granted,
	})
}
