package asset

import (
	"fmt"

	"pack-vault/internal/domain/errkind"
)

var (
	// ErrInvalidUnitKind 単位種別が無効
	ErrInvalidUnitKind = fmt.Errorf("%w: invalid unit kind", errkind.ErrValidation)
	// ErrInvalidSource 資産ソースが無効
	ErrInvalidSource = fmt.Errorf("%w: invalid asset source", errkind.ErrValidation)
	// ErrInvalidAmount 数量が無効
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", errkind.ErrValidation)
	// ErrInvalidRewardUnitDivision 報酬単位で総量を割り切れない
	ErrInvalidRewardUnitDivision = fmt.Errorf("%w: total amount is not divisible by amount per reward unit", errkind.ErrValidation)
	// ErrInvalidUniqueItemQuantity 唯一アイテムの数量が1ではない
	ErrInvalidUniqueItemQuantity = fmt.Errorf("%w: unique item quantity must be exactly 1", errkind.ErrValidation)
	// ErrEntryDepleted 在庫が尽きたエントリから取り出そうとした
	ErrEntryDepleted = fmt.Errorf("%w: reward entry depleted", errkind.ErrInternalInvariant)

	// ErrInsufficientAssetBalance 資産残高不足
	ErrInsufficientAssetBalance = fmt.Errorf("%w: insufficient asset balance", errkind.ErrState)
	// ErrNotItemOwner アイテムの所有者ではない
	ErrNotItemOwner = fmt.Errorf("%w: not the owner of the item", errkind.ErrState)
	// ErrItemAlreadyExists アイテムが既に存在する
	ErrItemAlreadyExists = fmt.Errorf("%w: item already exists", errkind.ErrState)
	// ErrItemNotFound アイテムが存在しない
	ErrItemNotFound = fmt.Errorf("%w: item not found", errkind.ErrNotFound)
	// ErrNativeTransferRejected 受取人がネイティブ通貨を受け取れない
	ErrNativeTransferRejected = fmt.Errorf("%w: recipient rejected native currency", errkind.ErrState)
)
