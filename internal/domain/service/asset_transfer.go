package service

import (
	"context"
	"fmt"

	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/errkind"
)

// Movement 資産1件の移動内容
type Movement struct {
	Source string
	Kind   asset.UnitKind
	From   string
	To     string
	ItemID string
	Amount int64
}

type transferProtocol func(ctx context.Context, m Movement) error

// AssetTransferService 種別ごとの転送プロトコルへ資産移動を振り分けるドメインサービス
type AssetTransferService struct {
	ledger    asset.Ledger
	vault     string
	native    asset.NativeCurrency
	protocols map[asset.UnitKind]transferProtocol
}

// NewAssetTransferService 新しいAssetTransferServiceを作成
func NewAssetTransferService(ledger asset.Ledger, vault string, native asset.NativeCurrency) *AssetTransferService {
	s := &AssetTransferService{
		ledger: ledger,
		vault:  vault,
		native: native,
	}
	s.protocols = map[asset.UnitKind]transferProtocol{
		asset.UnitKindFungibleCurrency: s.moveFungible,
		asset.UnitKindUniqueItem:       s.moveUnique,
		asset.UnitKindSemiFungibleItem: s.moveSemiFungible,
	}
	return s
}

// Vault 保管庫アカウントを返す
func (s *AssetTransferService) Vault() string {
	return s.vault
}

// Native ネイティブ通貨の設定を返す
func (s *AssetTransferService) Native() asset.NativeCurrency {
	return s.native
}

// MoveAsset 資産を from から to へ移動
// 台帳側の失敗は errkind.ErrTransferFailed でラップして返す
func (s *AssetTransferService) MoveAsset(ctx context.Context, source string, kind asset.UnitKind, from, to, itemID string, amount int64) error {
	protocol, ok := s.protocols[kind]
	if !ok {
		return fmt.Errorf("%w: %s", asset.ErrInvalidUnitKind, kind)
	}
	if amount < 0 {
		return asset.ErrInvalidAmount
	}
	if kind == asset.UnitKindUniqueItem && amount != 1 {
		return asset.ErrInvalidUniqueItemQuantity
	}
	if amount == 0 {
		return nil
	}

	m := Movement{Source: source, Kind: kind, From: from, To: to, ItemID: itemID, Amount: amount}
	if err := protocol(ctx, m); err != nil {
		return fmt.Errorf("%w: %s %s from %s to %s: %w", errkind.ErrTransferFailed, kind, source, from, to, err)
	}
	return nil
}

// MoveUnit 抽選された報酬1単位を移動
func (s *AssetTransferService) MoveUnit(ctx context.Context, u asset.RewardUnit, from, to string) error {
	return s.MoveAsset(ctx, u.Source, u.Kind, from, to, u.ItemID, u.Amount)
}

func (s *AssetTransferService) moveFungible(ctx context.Context, m Movement) error {
	if !s.native.IsNative(m.Source) {
		return s.ledger.TransferFungible(ctx, m.Source, m.From, m.To, m.Amount)
	}

	switch {
	case m.To == s.vault:
		if err := s.ledger.TransferFungible(ctx, m.Source, m.From, s.vault, m.Amount); err != nil {
			return err
		}
		return s.wrap(ctx, s.vault, m.Amount)
	case m.From == s.vault:
		if err := s.unwrap(ctx, s.vault, m.Amount); err != nil {
			return err
		}
		accepts, err := s.ledger.AcceptsNative(ctx, m.To)
		if err != nil {
			return err
		}
		if accepts {
			return s.ledger.TransferFungible(ctx, m.Source, s.vault, m.To, m.Amount)
		}
		// 受け取れない相手にはラップし直したトークンを送る
		if err := s.wrap(ctx, s.vault, m.Amount); err != nil {
			return err
		}
		return s.ledger.TransferFungible(ctx, s.native.WrappedSource, s.vault, m.To, m.Amount)
	default:
		return s.ledger.TransferFungible(ctx, m.Source, m.From, m.To, m.Amount)
	}
}

func (s *AssetTransferService) moveUnique(ctx context.Context, m Movement) error {
	return s.ledger.TransferUnique(ctx, m.Source, m.From, m.To, m.ItemID)
}

func (s *AssetTransferService) moveSemiFungible(ctx context.Context, m Movement) error {
	return s.ledger.TransferSemiFungible(ctx, m.Source, m.From, m.To, m.ItemID, m.Amount)
}

// wrap account のネイティブ通貨を預け、同量のラップ済みトークンを発行
func (s *AssetTransferService) wrap(ctx context.Context, account string, amount int64) error {
	if err := s.ledger.TransferFungible(ctx, s.native.Source, account, s.native.Reserve, amount); err != nil {
		return err
	}
	return s.ledger.MintFungible(ctx, s.native.WrappedSource, account, amount)
}

// unwrap account のラップ済みトークンを焼却し、預けたネイティブ通貨を戻す
func (s *AssetTransferService) unwrap(ctx context.Context, account string, amount int64) error {
	if err := s.ledger.BurnFungible(ctx, s.native.WrappedSource, account, amount); err != nil {
		return err
	}
	return s.ledger.TransferFungible(ctx, s.native.Source, s.native.Reserve, account, amount)
}
