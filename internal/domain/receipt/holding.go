package receipt

import (
	"fmt"
	"regexp"

	"pack-vault/internal/domain/errkind"
)

var (
	// ErrInsufficientShares 保有シェア不足
	ErrInsufficientShares = fmt.Errorf("%w: insufficient shares", errkind.ErrState)
	// ErrInvalidHolder 保有者IDが無効
	ErrInvalidHolder = fmt.Errorf("%w: invalid holder", errkind.ErrValidation)
	// ErrInvalidShareAmount シェア数が無効
	ErrInvalidShareAmount = fmt.Errorf("%w: invalid share amount", errkind.ErrValidation)
	// ErrSupplyAlreadyMinted 作成時以外の発行
	ErrSupplyAlreadyMinted = fmt.Errorf("%w: pack supply already minted", errkind.ErrState)
	// ErrSupplyUnderflow 流通量を超える焼却
	ErrSupplyUnderflow = fmt.Errorf("%w: pack supply underflow", errkind.ErrInternalInvariant)
)

var holderRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\@\:]{1,255}$`)

// Holding パックごとの受領シェア保有残高
type Holding struct {
	packID  int64
	holder  string
	balance int64
}

// NewHolding 新しいHoldingを作成
func NewHolding(packID int64, holder string, balance int64) (*Holding, error) {
	if !holderRegex.MatchString(holder) {
		return nil, ErrInvalidHolder
	}
	if balance < 0 {
		return nil, ErrInvalidShareAmount
	}
	return &Holding{packID: packID, holder: holder, balance: balance}, nil
}

// PackID パックIDを返す
func (h *Holding) PackID() int64 {
	return h.packID
}

// Holder 保有者を返す
func (h *Holding) Holder() string {
	return h.holder
}

// Balance 保有シェア数を返す
func (h *Holding) Balance() int64 {
	return h.balance
}

// Credit シェアを加算
func (h *Holding) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidShareAmount
	}
	h.balance += amount
	return nil
}

// Debit シェアを減算（残高を超える場合はエラー）
func (h *Holding) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidShareAmount
	}
	if h.balance < amount {
		return ErrInsufficientShares
	}
	h.balance -= amount
	return nil
}
