package memory

import (
	"context"

	"pack-vault/internal/domain/receipt"
)

// ShareRepository 受領シェアリポジトリの実装
type ShareRepository struct {
	store *Store
}

// NewShareRepository 新しいShareRepositoryを作成
func NewShareRepository(store *Store) *ShareRepository {
	return &ShareRepository{store: store}
}

// FindHolding 保有残高を取得
func (r *ShareRepository) FindHolding(ctx context.Context, packID int64, holder string) (*receipt.Holding, error) {
	var balance int64
	_ = r.store.read(ctx, func(st *state) error {
		balance = st.holdings[holdingKey{packID: packID, holder: holder}]
		return nil
	})
	return receipt.NewHolding(packID, holder, balance)
}

// SaveHolding 保有残高を保存
func (r *ShareRepository) SaveHolding(ctx context.Context, h *receipt.Holding) error {
	return r.store.write(ctx, func(st *state) error {
		key := holdingKey{packID: h.PackID(), holder: h.Holder()}
		if h.Balance() == 0 {
			delete(st.holdings, key)
			return nil
		}
		st.holdings[key] = h.Balance()
		return nil
	})
}

// TotalSupply 流通量を取得
func (r *ShareRepository) TotalSupply(ctx context.Context, packID int64) (int64, error) {
	var supply int64
	err := r.store.read(ctx, func(st *state) error {
		supply = st.supply[packID]
		return nil
	})
	return supply, err
}

// InitSupply 流通量を設定
func (r *ShareRepository) InitSupply(ctx context.Context, packID int64, supply int64) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.supply[packID]; ok {
			return receipt.ErrSupplyAlreadyMinted
		}
		st.supply[packID] = supply
		return nil
	})
}

// DecreaseSupply 流通量を減らす
func (r *ShareRepository) DecreaseSupply(ctx context.Context, packID int64, amount int64) error {
	return r.store.write(ctx, func(st *state) error {
		current, ok := st.supply[packID]
		if !ok || current < amount {
			return receipt.ErrSupplyUnderflow
		}
		st.supply[packID] = current - amount
		return nil
	})
}
