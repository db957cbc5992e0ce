package service

import (
	"context"

	"pack-vault/internal/domain/receipt"
)

// ReceiptAccountingService パックの受領シェアの発行・焼却・転送を扱うドメインサービス
type ReceiptAccountingService struct {
	shareRepo receipt.ShareRepository
}

// NewReceiptAccountingService 新しいReceiptAccountingServiceを作成
func NewReceiptAccountingService(shareRepo receipt.ShareRepository) *ReceiptAccountingService {
	return &ReceiptAccountingService{
		shareRepo: shareRepo,
	}
}

// MintShares パック作成時にシェアを発行（パックごとに一度だけ）
func (s *ReceiptAccountingService) MintShares(ctx context.Context, recipient string, packID int64, amount int64) error {
	if amount <= 0 {
		return receipt.ErrInvalidShareAmount
	}

	holding, err := s.shareRepo.FindHolding(ctx, packID, recipient)
	if err != nil {
		return err
	}
	if err := holding.Credit(amount); err != nil {
		return err
	}

	if err := s.shareRepo.InitSupply(ctx, packID, amount); err != nil {
		return err
	}
	return s.shareRepo.SaveHolding(ctx, holding)
}

// BurnShares 開封者のシェアを焼却し、流通量を減らす
func (s *ReceiptAccountingService) BurnShares(ctx context.Context, opener string, packID int64, amount int64) error {
	holding, err := s.shareRepo.FindHolding(ctx, packID, opener)
	if err != nil {
		return err
	}
	if err := holding.Debit(amount); err != nil {
		return err
	}

	if err := s.shareRepo.SaveHolding(ctx, holding); err != nil {
		return err
	}
	return s.shareRepo.DecreaseSupply(ctx, packID, amount)
}

// TransferShares シェアを保有者間で移動（流通量は変わらない）
func (s *ReceiptAccountingService) TransferShares(ctx context.Context, from, to string, packID int64, amount int64) error {
	fromHolding, err := s.shareRepo.FindHolding(ctx, packID, from)
	if err != nil {
		return err
	}
	if err := fromHolding.Debit(amount); err != nil {
		return err
	}
	if from == to {
		return nil
	}

	toHolding, err := s.shareRepo.FindHolding(ctx, packID, to)
	if err != nil {
		return err
	}
	if err := toHolding.Credit(amount); err != nil {
		return err
	}

	if err := s.shareRepo.SaveHolding(ctx, fromHolding); err != nil {
		return err
	}
	return s.shareRepo.SaveHolding(ctx, toHolding)
}

// BalanceOf 保有シェア数を取得
func (s *ReceiptAccountingService) BalanceOf(ctx context.Context, packID int64, holder string) (int64, error) {
	holding, err := s.shareRepo.FindHolding(ctx, packID, holder)
	if err != nil {
		return 0, err
	}
	return holding.Balance(), nil
}

// TotalSupply 流通中のシェア数を取得
func (s *ReceiptAccountingService) TotalSupply(ctx context.Context, packID int64) (int64, error) {
	return s.shareRepo.TotalSupply(ctx, packID)
}
