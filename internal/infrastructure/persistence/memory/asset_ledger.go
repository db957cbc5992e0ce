package memory

import (
	"context"

	"pack-vault/internal/domain/asset"
)

// AssetLedger 資産台帳の実装
type AssetLedger struct {
	store *Store
}

// NewAssetLedger 新しいAssetLedgerを作成
func NewAssetLedger(store *Store) *AssetLedger {
	return &AssetLedger{store: store}
}

func (l *AssetLedger) move(st *state, source, itemID, from, to string, amount int64) error {
	if amount <= 0 {
		return asset.ErrInvalidAmount
	}
	fromKey := balanceKey{source: source, itemID: itemID, owner: from}
	if st.balances[fromKey] < amount {
		return asset.ErrInsufficientAssetBalance
	}
	st.balances[fromKey] -= amount
	st.balances[balanceKey{source: source, itemID: itemID, owner: to}] += amount
	return nil
}

// TransferFungible 代替可能通貨を移動
func (l *AssetLedger) TransferFungible(ctx context.Context, source, from, to string, amount int64) error {
	return l.store.write(ctx, func(st *state) error {
		return l.move(st, source, "", from, to, amount)
	})
}

// TransferUnique 唯一アイテムを移動
func (l *AssetLedger) TransferUnique(ctx context.Context, source, from, to, itemID string) error {
	return l.store.write(ctx, func(st *state) error {
		key := itemKey{source: source, itemID: itemID}
		owner, ok := st.owners[key]
		if !ok {
			return asset.ErrItemNotFound
		}
		if owner != from {
			return asset.ErrNotItemOwner
		}
		st.owners[key] = to
		return nil
	})
}

// TransferSemiFungible 半代替可能アイテムを移動
func (l *AssetLedger) TransferSemiFungible(ctx context.Context, source, from, to, itemID string, amount int64) error {
	return l.store.write(ctx, func(st *state) error {
		return l.move(st, source, itemID, from, to, amount)
	})
}

// MintFungible 代替可能通貨を発行
func (l *AssetLedger) MintFungible(ctx context.Context, source, to string, amount int64) error {
	return l.MintSemiFungible(ctx, source, to, "", amount)
}

// BurnFungible 代替可能通貨を焼却
func (l *AssetLedger) BurnFungible(ctx context.Context, source, from string, amount int64) error {
	return l.store.write(ctx, func(st *state) error {
		if amount <= 0 {
			return asset.ErrInvalidAmount
		}
		key := balanceKey{source: source, owner: from}
		if st.balances[key] < amount {
			return asset.ErrInsufficientAssetBalance
		}
		st.balances[key] -= amount
		return nil
	})
}

// AcceptsNative ネイティブ通貨を受け取れるか
func (l *AssetLedger) AcceptsNative(ctx context.Context, account string) (bool, error) {
	var rejecting bool
	err := l.store.read(ctx, func(st *state) error {
		rejecting = st.rejecting[account]
		return nil
	})
	return !rejecting, err
}

// SetNativeRejecting ネイティブ通貨を拒否するアカウントを設定
func (l *AssetLedger) SetNativeRejecting(ctx context.Context, account string, rejecting bool) error {
	return l.store.write(ctx, func(st *state) error {
		if rejecting {
			st.rejecting[account] = true
		} else {
			delete(st.rejecting, account)
		}
		return nil
	})
}

// MintUnique 唯一アイテムを発行
func (l *AssetLedger) MintUnique(ctx context.Context, source, to, itemID string) error {
	return l.store.write(ctx, func(st *state) error {
		key := itemKey{source: source, itemID: itemID}
		if _, ok := st.owners[key]; ok {
			return asset.ErrItemAlreadyExists
		}
		st.owners[key] = to
		return nil
	})
}

// MintSemiFungible 半代替可能アイテムを発行
func (l *AssetLedger) MintSemiFungible(ctx context.Context, source, to, itemID string, amount int64) error {
	return l.store.write(ctx, func(st *state) error {
		if amount <= 0 {
			return asset.ErrInvalidAmount
		}
		st.balances[balanceKey{source: source, itemID: itemID, owner: to}] += amount
		return nil
	})
}

// BalanceOf 残高を取得（唯一アイテムは所有していれば1）
func (l *AssetLedger) BalanceOf(ctx context.Context, source, itemID, owner string) (int64, error) {
	var balance int64
	err := l.store.read(ctx, func(st *state) error {
		balance = st.balances[balanceKey{source: source, itemID: itemID, owner: owner}]
		if balance == 0 && itemID != "" && st.owners[itemKey{source: source, itemID: itemID}] == owner {
			balance = 1
		}
		return nil
	})
	return balance, err
}

// OwnerOf 唯一アイテムの所有者を取得
func (l *AssetLedger) OwnerOf(ctx context.Context, source, itemID string) (string, error) {
	var owner string
	err := l.store.read(ctx, func(st *state) error {
		o, ok := st.owners[itemKey{source: source, itemID: itemID}]
		if !ok {
			return asset.ErrItemNotFound
		}
		owner = o
		return nil
	})
	return owner, err
}
