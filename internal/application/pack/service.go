package pack

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/pack"
	"pack-vault/internal/domain/service"
	"pack-vault/internal/domain/transaction"
	"pack-vault/internal/infrastructure/cache"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

// Dependencies PackApplicationServiceの依存
type Dependencies struct {
	PackRepo  pack.PackRepository
	Metadata  pack.MetadataStore
	EventRepo pack.EventRepository
	Publisher pack.EventPublisher
	Roles     access.RoleRepository
	Pause     access.PauseState
	Identity  *access.IdentityResolver
	TxManager transaction.TransactionManager
	Guard     transaction.Guard
	Transfers *service.AssetTransferService
	Receipts  *service.ReceiptAccountingService
	Sampler   *service.RewardSampler
	Beacon    service.BlockBeacon
	Cache     *cache.ContentsCache
	Logger    *otelinfra.Logger
	Metrics   *otelinfra.Metrics
	// Now 現在時刻（nilの場合はtime.Now）
	Now func() time.Time
}

// PackApplicationService パックの作成・開封・シェア転送を扱うアプリケーションサービス
type PackApplicationService struct {
	Dependencies
	tracer trace.Tracer
}

// NewPackApplicationService 新しいPackApplicationServiceを作成
func NewPackApplicationService(deps Dependencies) *PackApplicationService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &PackApplicationService{
		Dependencies: deps,
		tracer:       otel.Tracer("pack-service"),
	}
}

// CreatePack 資産を保管庫へ預けてパックを作成し、受取人にシェアを発行する
func (s *PackApplicationService) CreatePack(ctx context.Context, req *CreatePackRequest) (*CreatePackResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.CreatePack")
	defer span.End()

	span.SetAttributes(
		attribute.String("sender", req.Invocation.Sender),
		attribute.String("recipient", req.Recipient),
		attribute.Int("entry_count", len(req.Contents)),
		attribute.Int64("reward_units_per_open", req.RewardUnitsPerOpen),
	)

	var result *CreatePackResponse
	var created *pack.Event

	err := s.guarded(ctx, "create_pack", func(ctx context.Context) error {
		caller := s.Identity.Resolve(req.Invocation)

		if len(req.Contents) == 0 {
			return pack.ErrNothingToPack
		}
		if req.Recipient == "" {
			return pack.ErrInvalidRecipient
		}
		if err := s.requireRole(ctx, access.RoleMinter, caller.Account); err != nil {
			return err
		}

		contents := make([]*asset.RewardEntry, 0, len(req.Contents))
		for _, in := range req.Contents {
			kind, err := asset.NewUnitKind(in.Kind)
			if err != nil {
				return err
			}
			e, err := asset.NewRewardEntry(in.Source, kind, in.ItemID, in.TotalAmount, in.PerUnitAmount)
			if err != nil {
				return err
			}
			if err := s.checkAssetAllowed(ctx, e); err != nil {
				return err
			}
			contents = append(contents, e)
		}

		return s.TxManager.WithTransaction(ctx, func(ctx context.Context) error {
			id, err := s.PackRepo.NextID(ctx)
			if err != nil {
				return fmt.Errorf("failed to allocate pack id: %w", err)
			}

			p, err := pack.NewPack(id, req.URI, req.OpenEligibleAt, req.RewardUnitsPerOpen, contents, caller.Account)
			if err != nil {
				return err
			}

			if err := s.depositContents(ctx, caller.Account, p.Contents()); err != nil {
				return err
			}

			if err := s.PackRepo.Create(ctx, p); err != nil {
				return fmt.Errorf("failed to create pack: %w", err)
			}
			if err := s.Metadata.SetURI(ctx, id, req.URI); err != nil {
				return fmt.Errorf("failed to set pack uri: %w", err)
			}

			supply := p.ShareSupply()
			if err := s.Receipts.MintShares(ctx, req.Recipient, id, supply); err != nil {
				return err
			}

			created = pack.NewCreatedEvent(uuid.New().String(), p, req.Recipient, supply)
			if err := s.EventRepo.Save(ctx, created); err != nil {
				return fmt.Errorf("failed to save event: %w", err)
			}

			result = &CreatePackResponse{
				PackID:      id,
				TotalSupply: supply,
				Creator:     caller.Account,
				Recipient:   req.Recipient,
			}
			return nil
		})
	})
	if err != nil {
		s.fail(ctx, span, "Failed to create pack", err, map[string]interface{}{
			"sender":    req.Invocation.Sender,
			"recipient": req.Recipient,
		})
		return nil, err
	}

	s.publish(ctx, created)
	s.Metrics.RecordPackCreated(ctx, len(req.Contents))

	span.SetAttributes(
		attribute.Int64("pack_id", result.PackID),
		attribute.Int64("total_supply", result.TotalSupply),
	)
	span.SetStatus(otelcodes.Ok, "pack created")

	s.Logger.Info(ctx, "Pack created", map[string]interface{}{
		"pack_id":      result.PackID,
		"creator":      result.Creator,
		"recipient":    result.Recipient,
		"total_supply": result.TotalSupply,
	})

	return result, nil
}

// depositContents 作成者から保管庫へ在庫を移す
// ネイティブ通貨は合算して1回で移動する
func (s *PackApplicationService) depositContents(ctx context.Context, from string, contents []*asset.RewardEntry) error {
	native := s.Transfers.Native()
	var nativeTotal int64
	for _, e := range contents {
		if e.Kind() == asset.UnitKindFungibleCurrency && native.IsNative(e.Source()) {
			nativeTotal += e.TotalAmount()
			continue
		}
		if err := s.Transfers.MoveAsset(ctx, e.Source(), e.Kind(), from, s.Transfers.Vault(), e.ItemID(), e.TotalAmount()); err != nil {
			return err
		}
	}
	if nativeTotal > 0 {
		return s.Transfers.MoveAsset(ctx, native.Source, asset.UnitKindFungibleCurrency, from, s.Transfers.Vault(), "", nativeTotal)
	}
	return nil
}

// OpenPack シェアを焼却して報酬を抽選し、開封者へ送る
func (s *PackApplicationService) OpenPack(ctx context.Context, req *OpenPackRequest) (*OpenPackResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.OpenPack")
	defer span.End()

	span.SetAttributes(
		attribute.String("sender", req.Invocation.Sender),
		attribute.Int64("pack_id", req.PackID),
		attribute.Int64("shares", req.Shares),
	)

	var result *OpenPackResponse
	var opened *pack.Event

	err := s.guarded(ctx, "open_pack", func(ctx context.Context) error {
		caller := s.Identity.Resolve(req.Invocation)
		if !caller.IsOriginating() {
			return access.ErrNotOriginatingCaller
		}
		if req.Shares <= 0 {
			return pack.ErrInvalidShareAmount
		}

		return s.TxManager.WithTransaction(ctx, func(ctx context.Context) error {
			p, err := s.PackRepo.FindByID(ctx, req.PackID)
			if err != nil {
				return err
			}
			if err := p.CheckOpenable(s.Now().Unix()); err != nil {
				return err
			}

			if err := s.Receipts.BurnShares(ctx, caller.Account, p.ID(), req.Shares); err != nil {
				return err
			}

			entropy, err := s.Beacon.Latest(ctx)
			if err != nil {
				return fmt.Errorf("failed to read block entropy: %w", err)
			}
			seed := service.SeedFromBlock(caller.Account, entropy)

			units, err := s.Sampler.Draw(service.NewKeccakDrawSource(seed), p.DrawCount(req.Shares), p.Contents())
			if err != nil {
				return err
			}
			if err := s.PackRepo.SaveContents(ctx, p); err != nil {
				return fmt.Errorf("failed to save pack contents: %w", err)
			}

			for _, u := range units {
				if err := s.Transfers.MoveUnit(ctx, u, s.Transfers.Vault(), caller.Account); err != nil {
					return err
				}
			}

			opened = pack.NewOpenedEvent(uuid.New().String(), p.ID(), caller.Account, req.Shares, units)
			if err := s.EventRepo.Save(ctx, opened); err != nil {
				return fmt.Errorf("failed to save event: %w", err)
			}

			result = &OpenPackResponse{
				PackID:      p.ID(),
				Opener:      caller.Account,
				Shares:      req.Shares,
				Units:       toRewardUnits(units),
				BlockNumber: entropy.Number,
				Seed:        seed.Hex(),
			}
			return nil
		})
	})
	if err != nil {
		s.fail(ctx, span, "Failed to open pack", err, map[string]interface{}{
			"sender":  req.Invocation.Sender,
			"pack_id": req.PackID,
			"shares":  req.Shares,
		})
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Invalidate(req.PackID)
	}
	s.publish(ctx, opened)
	s.Metrics.RecordPackOpened(ctx, req.PackID, req.Shares)
	for _, u := range opened.Units {
		s.Metrics.RecordRewardUnit(ctx, u.Kind.String(), u.Source)
	}

	span.SetAttributes(attribute.Int("unit_count", len(result.Units)))
	span.SetStatus(otelcodes.Ok, "pack opened")

	s.Logger.Info(ctx, "Pack opened", map[string]interface{}{
		"pack_id":      result.PackID,
		"opener":       result.Opener,
		"shares":       result.Shares,
		"unit_count":   len(result.Units),
		"block_number": result.BlockNumber,
	})

	return result, nil
}

// TransferShares シェアを別のアカウントへ転送する
func (s *PackApplicationService) TransferShares(ctx context.Context, req *TransferSharesRequest) (*TransferSharesResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.TransferShares")
	defer span.End()

	span.SetAttributes(
		attribute.String("sender", req.Invocation.Sender),
		attribute.String("to", req.To),
		attribute.Int64("pack_id", req.PackID),
		attribute.Int64("amount", req.Amount),
	)

	var result *TransferSharesResponse
	var transferred *pack.Event

	err := s.guarded(ctx, "transfer_shares", func(ctx context.Context) error {
		caller := s.Identity.Resolve(req.Invocation)
		if req.Amount <= 0 {
			return pack.ErrInvalidShareAmount
		}
		if req.To == "" {
			return pack.ErrInvalidRecipient
		}
		if err := s.checkTransferAllowed(ctx, caller.Account, req.To); err != nil {
			return err
		}

		return s.TxManager.WithTransaction(ctx, func(ctx context.Context) error {
			if _, err := s.PackRepo.FindByID(ctx, req.PackID); err != nil {
				return err
			}
			if err := s.Receipts.TransferShares(ctx, caller.Account, req.To, req.PackID, req.Amount); err != nil {
				return err
			}

			transferred = pack.NewSharesTransferredEvent(uuid.New().String(), req.PackID, caller.Account, req.To, req.Amount)
			if err := s.EventRepo.Save(ctx, transferred); err != nil {
				return fmt.Errorf("failed to save event: %w", err)
			}

			balance, err := s.Receipts.BalanceOf(ctx, req.PackID, caller.Account)
			if err != nil {
				return err
			}
			result = &TransferSharesResponse{
				PackID:  req.PackID,
				From:    caller.Account,
				To:      req.To,
				Amount:  req.Amount,
				Balance: balance,
			}
			return nil
		})
	})
	if err != nil {
		s.fail(ctx, span, "Failed to transfer shares", err, map[string]interface{}{
			"sender":  req.Invocation.Sender,
			"to":      req.To,
			"pack_id": req.PackID,
		})
		return nil, err
	}

	s.publish(ctx, transferred)
	span.SetStatus(otelcodes.Ok, "shares transferred")
	return result, nil
}

// GetPackContents パックの残り在庫を返す（状態は変更しない）
func (s *PackApplicationService) GetPackContents(ctx context.Context, packID int64) ([]ContentEntry, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.GetPackContents")
	defer span.End()

	span.SetAttributes(attribute.Int64("pack_id", packID))

	if s.Cache != nil {
		if contents, ok := s.Cache.Get(packID); ok {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			span.SetStatus(otelcodes.Ok, "contents found")
			return toContentEntries(contents), nil
		}
	}

	var generation uint64
	if s.Cache != nil {
		generation = s.Cache.Generation(packID)
	}

	p, err := s.PackRepo.FindByID(ctx, packID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	if s.Cache != nil && !s.Cache.Set(packID, generation, p.Contents()) {
		span.SetAttributes(attribute.Bool("cache_stale", true))
	}

	span.SetStatus(otelcodes.Ok, "contents found")
	return toContentEntries(p.Contents()), nil
}

// GetPack パック情報を返す
func (s *PackApplicationService) GetPack(ctx context.Context, packID int64) (*GetPackResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.GetPack")
	defer span.End()

	span.SetAttributes(attribute.Int64("pack_id", packID))

	p, err := s.PackRepo.FindByID(ctx, packID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	uri, err := s.Metadata.URI(ctx, packID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to get pack uri: %w", err)
	}

	supply, err := s.Receipts.TotalSupply(ctx, packID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to get total supply: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "pack found")
	return &GetPackResponse{
		PackID:             p.ID(),
		URI:                uri,
		OpenEligibleAt:     p.OpenEligibleAt(),
		RewardUnitsPerOpen: p.RewardUnitsPerOpen(),
		Creator:            p.Creator(),
		CreatedAt:          p.CreatedAt(),
		TotalSupply:        supply,
		RemainingUnits:     p.TotalRewardUnits(),
		Contents:           toContentEntries(p.Contents()),
	}, nil
}

// URI パックのメタデータURIを返す
func (s *PackApplicationService) URI(ctx context.Context, packID int64) (string, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.URI")
	defer span.End()

	uri, err := s.Metadata.URI(ctx, packID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return "", err
	}
	return uri, nil
}

// TotalSupply 流通中のシェア数を返す
func (s *PackApplicationService) TotalSupply(ctx context.Context, packID int64) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.TotalSupply")
	defer span.End()

	span.SetAttributes(attribute.Int64("pack_id", packID))

	supply, err := s.Receipts.TotalSupply(ctx, packID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return 0, fmt.Errorf("failed to get total supply: %w", err)
	}
	return supply, nil
}

// BalanceOf 保有シェア数を返す
func (s *PackApplicationService) BalanceOf(ctx context.Context, packID int64, holder string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.BalanceOf")
	defer span.End()

	span.SetAttributes(
		attribute.Int64("pack_id", packID),
		attribute.String("holder", holder),
	)

	balance, err := s.Receipts.BalanceOf(ctx, packID, holder)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return 0, err
	}
	return balance, nil
}

// CallerAccount 信頼済み中継者を考慮して呼び出し主体のアカウントを返す
func (s *PackApplicationService) CallerAccount(inv access.Invocation) string {
	return s.Identity.Resolve(inv).Account
}

// ListEvents パックのイベント履歴を返す
func (s *PackApplicationService) ListEvents(ctx context.Context, req *ListEventsRequest) (*ListEventsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "PackApplicationService.ListEvents")
	defer span.End()

	limit := req.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	span.SetAttributes(
		attribute.Int64("pack_id", req.PackID),
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)

	events, err := s.EventRepo.FindByPackID(ctx, req.PackID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, fmt.Errorf("failed to find events: %w", err)
	}

	entries := make([]EventEntry, len(events))
	for i, e := range events {
		entries[i] = toEventEntry(e)
	}

	span.SetStatus(otelcodes.Ok, "events found")
	return &ListEventsResponse{
		Events: entries,
		Limit:  limit,
		Offset: offset,
	}, nil
}

// guarded 一時停止を確認し、再入ガードを保持したままfnを実行する
func (s *PackApplicationService) guarded(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	paused, err := s.Pause.IsPaused(ctx)
	if err != nil {
		return fmt.Errorf("failed to read pause state: %w", err)
	}
	if paused {
		return access.ErrPaused
	}

	err = transaction.Guarded(ctx, s.Guard, fn)
	if errors.Is(err, transaction.ErrReentrantCall) {
		s.Metrics.RecordReentrancyRejected(ctx, operation)
	}
	return err
}

// requireRole account が role を持っているか検証
func (s *PackApplicationService) requireRole(ctx context.Context, role access.Role, account string) error {
	ok, err := s.Roles.HasRole(ctx, role, account)
	if err != nil {
		return fmt.Errorf("failed to check role: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s requires %s", access.ErrMissingRole, account, role)
	}
	return nil
}

// openToAll ゼロアカウントにロールが付与されていれば全員に許可されている
func (s *PackApplicationService) openToAll(ctx context.Context, role access.Role) (bool, error) {
	ok, err := s.Roles.HasRole(ctx, role, access.ZeroAccount)
	if err != nil {
		return false, fmt.Errorf("failed to check role: %w", err)
	}
	return ok, nil
}

// checkAssetAllowed 在庫に含められる資産ソースか検証（ネイティブ通貨は常に許可）
func (s *PackApplicationService) checkAssetAllowed(ctx context.Context, e *asset.RewardEntry) error {
	if e.Kind() == asset.UnitKindFungibleCurrency && s.Transfers.Native().IsNative(e.Source()) {
		return nil
	}
	open, err := s.openToAll(ctx, access.RoleAsset)
	if err != nil || open {
		return err
	}
	ok, err := s.Roles.HasRole(ctx, access.RoleAsset, e.Source())
	if err != nil {
		return fmt.Errorf("failed to check role: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", access.ErrAssetNotAllowed, e.Source())
	}
	return nil
}

// checkTransferAllowed 転送元か転送先のどちらかが転送ロールを持っているか検証
func (s *PackApplicationService) checkTransferAllowed(ctx context.Context, from, to string) error {
	open, err := s.openToAll(ctx, access.RoleTransfer)
	if err != nil || open {
		return err
	}
	for _, account := range []string{from, to} {
		ok, err := s.Roles.HasRole(ctx, access.RoleTransfer, account)
		if err != nil {
			return fmt.Errorf("failed to check role: %w", err)
		}
		if ok {
			return nil
		}
	}
	return access.ErrTransferRestricted
}

// publish コミット済みイベントを通知（失敗しても操作自体は成功として扱う）
func (s *PackApplicationService) publish(ctx context.Context, e *pack.Event) {
	if s.Publisher == nil || e == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, e); err != nil {
		s.Logger.Warn(ctx, "Failed to publish event", map[string]interface{}{
			"event_id": e.EventID,
			"pack_id":  e.PackID,
			"error":    err.Error(),
		})
	}
}

func (s *PackApplicationService) fail(ctx context.Context, span trace.Span, message string, err error, fields map[string]interface{}) {
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	s.Logger.Error(ctx, message, err, fields)
}
