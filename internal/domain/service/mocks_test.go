package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pack-vault/internal/domain/receipt"
)

// MockLedger モック資産台帳
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) TransferFungible(ctx context.Context, source, from, to string, amount int64) error {
	args := m.Called(ctx, source, from, to, amount)
	return args.Error(0)
}

func (m *MockLedger) TransferUnique(ctx context.Context, source, from, to, itemID string) error {
	args := m.Called(ctx, source, from, to, itemID)
	return args.Error(0)
}

func (m *MockLedger) TransferSemiFungible(ctx context.Context, source, from, to, itemID string, amount int64) error {
	args := m.Called(ctx, source, from, to, itemID, amount)
	return args.Error(0)
}

func (m *MockLedger) MintFungible(ctx context.Context, source, to string, amount int64) error {
	args := m.Called(ctx, source, to, amount)
	return args.Error(0)
}

func (m *MockLedger) BurnFungible(ctx context.Context, source, from string, amount int64) error {
	args := m.Called(ctx, source, from, amount)
	return args.Error(0)
}

func (m *MockLedger) AcceptsNative(ctx context.Context, account string) (bool, error) {
	args := m.Called(ctx, account)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) MintUnique(ctx context.Context, source, to, itemID string) error {
	args := m.Called(ctx, source, to, itemID)
	return args.Error(0)
}

func (m *MockLedger) MintSemiFungible(ctx context.Context, source, to, itemID string, amount int64) error {
	args := m.Called(ctx, source, to, itemID, amount)
	return args.Error(0)
}

func (m *MockLedger) BalanceOf(ctx context.Context, source, itemID, owner string) (int64, error) {
	args := m.Called(ctx, source, itemID, owner)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedger) OwnerOf(ctx context.Context, source, itemID string) (string, error) {
	args := m.Called(ctx, source, itemID)
	return args.String(0), args.Error(1)
}

func (m *MockLedger) SetNativeRejecting(ctx context.Context, account string, rejecting bool) error {
	args := m.Called(ctx, account, rejecting)
	return args.Error(0)
}

// MockShareRepository モック受領シェアリポジトリ
type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) FindHolding(ctx context.Context, packID int64, holder string) (*receipt.Holding, error) {
	args := m.Called(ctx, packID, holder)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*receipt.Holding), args.Error(1)
}

func (m *MockShareRepository) SaveHolding(ctx context.Context, h *receipt.Holding) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockShareRepository) TotalSupply(ctx context.Context, packID int64) (int64, error) {
	args := m.Called(ctx, packID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockShareRepository) InitSupply(ctx context.Context, packID int64, supply int64) error {
	args := m.Called(ctx, packID, supply)
	return args.Error(0)
}

func (m *MockShareRepository) DecreaseSupply(ctx context.Context, packID int64, amount int64) error {
	args := m.Called(ctx, packID, amount)
	return args.Error(0)
}
