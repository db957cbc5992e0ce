package admin

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/pack"
	"pack-vault/internal/domain/transaction"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

// AdminApplicationService 運用者向けの管理操作を扱うアプリケーションサービス
// 呼び出し元の認証はAPIキーで行われている前提
type AdminApplicationService struct {
	roles     access.RoleRepository
	pause     access.PauseState
	packRepo  pack.PackRepository
	metadata  pack.MetadataStore
	ledger    asset.Ledger
	txManager transaction.TransactionManager
	logger    *otelinfra.Logger
	tracer    trace.Tracer
}

// NewAdminApplicationService 新しいAdminApplicationServiceを作成
func NewAdminApplicationService(
	roles access.RoleRepository,
	pause access.PauseState,
	packRepo pack.PackRepository,
	metadata pack.MetadataStore,
	ledger asset.Ledger,
	txManager transaction.TransactionManager,
	logger *otelinfra.Logger,
) *AdminApplicationService {
	return &AdminApplicationService{
		roles:     roles,
		pause:     pause,
		packRepo:  packRepo,
		metadata:  metadata,
		ledger:    ledger,
		txManager: txManager,
		logger:    logger,
		tracer:    otel.Tracer("admin-service"),
	}
}

// GrantRole ロールを付与
func (s *AdminApplicationService) GrantRole(ctx context.Context, req *RoleRequest) (*RoleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.GrantRole")
	defer span.End()

	role, err := s.parseRoleRequest(span, req)
	if err != nil {
		return nil, err
	}

	if err := s.roles.Grant(ctx, role, req.Account); err != nil {
		s.fail(ctx, span, "Failed to grant role", err, map[string]interface{}{
			"role":    req.Role,
			"account": req.Account,
		})
		return nil, fmt.Errorf("failed to grant role: %w", err)
	}

	s.logger.Info(ctx, "Role granted", map[string]interface{}{
		"role":    req.Role,
		"account": req.Account,
	})
	span.SetStatus(otelcodes.Ok, "role granted")
	return &RoleResponse{Role: role.String(), Account: req.Account, Granted: true}, nil
}

// RevokeRole ロールを剥奪
func (s *AdminApplicationService) RevokeRole(ctx context.Context, req *RoleRequest) (*RoleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.RevokeRole")
	defer span.End()

	role, err := s.parseRoleRequest(span, req)
	if err != nil {
		return nil, err
	}

	if err := s.roles.Revoke(ctx, role, req.Account); err != nil {
		s.fail(ctx, span, "Failed to revoke role", err, map[string]interface{}{
			"role":    req.Role,
			"account": req.Account,
		})
		return nil, fmt.Errorf("failed to revoke role: %w", err)
	}

	s.logger.Info(ctx, "Role revoked", map[string]interface{}{
		"role":    req.Role,
		"account": req.Account,
	})
	span.SetStatus(otelcodes.Ok, "role revoked")
	return &RoleResponse{Role: role.String(), Account: req.Account, Granted: false}, nil
}

// HasRole ロールの保有状況を返す
func (s *AdminApplicationService) HasRole(ctx context.Context, req *RoleRequest) (*RoleResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.HasRole")
	defer span.End()

	role, err := s.parseRoleRequest(span, req)
	if err != nil {
		return nil, err
	}

	granted, err := s.roles.HasRole(ctx, role, req.Account)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to check role: %w", err)
	}
	return &RoleResponse{Role: role.String(), Account: req.Account, Granted: granted}, nil
}

// SetPaused 一時停止状態を切り替える
func (s *AdminApplicationService) SetPaused(ctx context.Context, paused bool) (*PauseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.SetPaused")
	defer span.End()

	span.SetAttributes(attribute.Bool("paused", paused))

	if err := s.pause.SetPaused(ctx, paused); err != nil {
		s.fail(ctx, span, "Failed to set pause state", err, map[string]interface{}{
			"paused": paused,
		})
		return nil, fmt.Errorf("failed to set pause state: %w", err)
	}

	s.logger.Warn(ctx, "Pause state changed", map[string]interface{}{
		"paused": paused,
	})
	span.SetStatus(otelcodes.Ok, "pause state changed")
	return &PauseResponse{Paused: paused}, nil
}

// IsPaused 一時停止状態を返す
func (s *AdminApplicationService) IsPaused(ctx context.Context) (*PauseResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.IsPaused")
	defer span.End()

	paused, err := s.pause.IsPaused(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to read pause state: %w", err)
	}
	return &PauseResponse{Paused: paused}, nil
}

// SetURI パックのメタデータURIを更新
func (s *AdminApplicationService) SetURI(ctx context.Context, req *SetURIRequest) (*SetURIResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.SetURI")
	defer span.End()

	span.SetAttributes(attribute.Int64("pack_id", req.PackID))

	if len(req.URI) > pack.MaxURILength {
		span.RecordError(pack.ErrInvalidURI)
		span.SetStatus(otelcodes.Error, pack.ErrInvalidURI.Error())
		return nil, pack.ErrInvalidURI
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.packRepo.FindByID(ctx, req.PackID); err != nil {
			return err
		}
		return s.metadata.SetURI(ctx, req.PackID, req.URI)
	})
	if err != nil {
		s.fail(ctx, span, "Failed to set pack uri", err, map[string]interface{}{
			"pack_id": req.PackID,
		})
		return nil, err
	}

	s.logger.Info(ctx, "Pack uri updated", map[string]interface{}{
		"pack_id": req.PackID,
		"uri":     req.URI,
	})
	span.SetStatus(otelcodes.Ok, "pack uri updated")
	return &SetURIResponse{PackID: req.PackID, URI: req.URI}, nil
}

// MintAsset 台帳に資産を発行（検証環境向け）
func (s *AdminApplicationService) MintAsset(ctx context.Context, req *MintAssetRequest) (*AssetBalanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.MintAsset")
	defer span.End()

	span.SetAttributes(
		attribute.String("source", req.Source),
		attribute.String("kind", req.Kind),
		attribute.String("to", req.To),
		attribute.Int64("amount", req.Amount),
	)

	kind, err := s.validateMint(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	var balance int64
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		switch kind {
		case asset.UnitKindFungibleCurrency:
			err = s.ledger.MintFungible(ctx, req.Source, req.To, req.Amount)
		case asset.UnitKindUniqueItem:
			err = s.ledger.MintUnique(ctx, req.Source, req.To, req.ItemID)
		case asset.UnitKindSemiFungibleItem:
			err = s.ledger.MintSemiFungible(ctx, req.Source, req.To, req.ItemID, req.Amount)
		}
		if err != nil {
			return err
		}
		balance, err = s.ledger.BalanceOf(ctx, req.Source, req.ItemID, req.To)
		return err
	})
	if err != nil {
		s.fail(ctx, span, "Failed to mint asset", err, map[string]interface{}{
			"source": req.Source,
			"kind":   req.Kind,
			"to":     req.To,
		})
		return nil, err
	}

	s.logger.Info(ctx, "Asset minted", map[string]interface{}{
		"source":  req.Source,
		"kind":    req.Kind,
		"item_id": req.ItemID,
		"to":      req.To,
		"amount":  req.Amount,
	})
	span.SetStatus(otelcodes.Ok, "asset minted")
	return &AssetBalanceResponse{Source: req.Source, ItemID: req.ItemID, Owner: req.To, Balance: balance}, nil
}

// GetAssetBalance 台帳の残高を返す
func (s *AdminApplicationService) GetAssetBalance(ctx context.Context, req *AssetBalanceRequest) (*AssetBalanceResponse, error) {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.GetAssetBalance")
	defer span.End()

	if err := asset.ValidateSource(req.Source); err != nil {
		return nil, err
	}
	if req.Owner == "" {
		return nil, access.ErrInvalidAccount
	}

	balance, err := s.ledger.BalanceOf(ctx, req.Source, req.ItemID, req.Owner)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to read balance: %w", err)
	}
	return &AssetBalanceResponse{Source: req.Source, ItemID: req.ItemID, Owner: req.Owner, Balance: balance}, nil
}

// SetNativeRejecting アカウントがネイティブ通貨を受け取れないかを設定
func (s *AdminApplicationService) SetNativeRejecting(ctx context.Context, req *NativeRejectingRequest) error {
	ctx, span := s.tracer.Start(ctx, "AdminApplicationService.SetNativeRejecting")
	defer span.End()

	if req.Account == "" {
		return access.ErrInvalidAccount
	}

	if err := s.ledger.SetNativeRejecting(ctx, req.Account, req.Rejecting); err != nil {
		s.fail(ctx, span, "Failed to set native rejecting", err, map[string]interface{}{
			"account": req.Account,
		})
		return fmt.Errorf("failed to set native rejecting: %w", err)
	}

	s.logger.Info(ctx, "Native rejecting updated", map[string]interface{}{
		"account":   req.Account,
		"rejecting": req.Rejecting,
	})
	return nil
}

func (s *AdminApplicationService) parseRoleRequest(span trace.Span, req *RoleRequest) (access.Role, error) {
	span.SetAttributes(
		attribute.String("role", req.Role),
		attribute.String("account", req.Account),
	)
	role, err := access.NewRole(req.Role)
	if err == nil && req.Account == "" {
		err = access.ErrInvalidAccount
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return "", err
	}
	return role, nil
}

// validateMint 発行リクエストを検証し、単位種別を返す
func (s *AdminApplicationService) validateMint(req *MintAssetRequest) (asset.UnitKind, error) {
	kind, err := asset.NewUnitKind(req.Kind)
	if err != nil {
		return "", err
	}
	if err := asset.ValidateSource(req.Source); err != nil {
		return "", err
	}
	if req.To == "" {
		return "", access.ErrInvalidAccount
	}
	switch kind {
	case asset.UnitKindUniqueItem:
		if req.ItemID == "" {
			return "", fmt.Errorf("%w: item id is required", asset.ErrInvalidAmount)
		}
		if req.Amount != 0 && req.Amount != 1 {
			return "", asset.ErrInvalidUniqueItemQuantity
		}
	case asset.UnitKindSemiFungibleItem:
		if req.ItemID == "" {
			return "", fmt.Errorf("%w: item id is required", asset.ErrInvalidAmount)
		}
		if req.Amount <= 0 || req.Amount > asset.MaxAmount {
			return "", asset.ErrInvalidAmount
		}
	default:
		if req.ItemID != "" {
			return "", fmt.Errorf("%w: fungible currency has no item id", asset.ErrInvalidAmount)
		}
		if req.Amount <= 0 || req.Amount > asset.MaxAmount {
			return "", asset.ErrInvalidAmount
		}
	}
	return kind, nil
}

func (s *AdminApplicationService) fail(ctx context.Context, span trace.Span, message string, err error, fields map[string]interface{}) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	s.logger.Error(ctx, message, err, fields)
}
