package asset

import (
	"fmt"
)

// UnitKind 資産の単位種別を表す値オブジェクト
type UnitKind string

const (
	UnitKindFungibleCurrency UnitKind = "fungible_currency"  // 代替可能通貨
	UnitKindUniqueItem       UnitKind = "unique_item"        // 唯一アイテム
	UnitKindSemiFungibleItem UnitKind = "semi_fungible_item" // 半代替可能アイテム
)

// NewUnitKind 新しいUnitKindを作成
func NewUnitKind(s string) (UnitKind, error) {
	switch s {
	case "fungible_currency", "unique_item", "semi_fungible_item":
		return UnitKind(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidUnitKind, s)
	}
}

// String 文字列表現を返す
func (k UnitKind) String() string {
	return string(k)
}

// Valid 有効な単位種別かどうかを返す
func (k UnitKind) Valid() bool {
	switch k {
	case UnitKindFungibleCurrency, UnitKindUniqueItem, UnitKindSemiFungibleItem:
		return true
	default:
		return false
	}
}

// HasItemID アイテムIDが意味を持つ種別かどうか
func (k UnitKind) HasItemID() bool {
	return k == UnitKindUniqueItem || k == UnitKindSemiFungibleItem
}
