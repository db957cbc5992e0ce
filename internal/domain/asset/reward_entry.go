package asset

import (
	"fmt"
	"regexp"
)

// MaxAmount 1エントリあたりの最大数量
const MaxAmount = 10_000_000_000_000

var sourceRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-\.\:]{1,255}$`)

// RewardEntry パックの在庫1行（エスクロー中の資産）
type RewardEntry struct {
	source        string
	kind          UnitKind
	itemID        string
	totalAmount   int64 // エスクロー中の総量（基本単位）
	perUnitAmount int64 // 報酬1単位あたりの数量
}

// NewRewardEntry 新しいRewardEntryを作成
// totalAmount は perUnitAmount で割り切れること。唯一アイテムはどちらも1
func NewRewardEntry(source string, kind UnitKind, itemID string, totalAmount, perUnitAmount int64) (*RewardEntry, error) {
	if totalAmount <= 0 {
		return nil, ErrInvalidAmount
	}
	return newRewardEntry(source, kind, itemID, totalAmount, perUnitAmount)
}

// RestoreRewardEntry 永続化層から在庫行を復元（枯渇済みの0を許容）
func RestoreRewardEntry(source string, kind UnitKind, itemID string, totalAmount, perUnitAmount int64) (*RewardEntry, error) {
	if totalAmount < 0 {
		return nil, ErrInvalidAmount
	}
	return newRewardEntry(source, kind, itemID, totalAmount, perUnitAmount)
}

// ValidateSource 資産ソース名の形式を検証
func ValidateSource(source string) error {
	if !sourceRegex.MatchString(source) {
		return ErrInvalidSource
	}
	return nil
}

func newRewardEntry(source string, kind UnitKind, itemID string, totalAmount, perUnitAmount int64) (*RewardEntry, error) {
	if err := ValidateSource(source); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUnitKind, kind)
	}
	if perUnitAmount <= 0 || totalAmount > MaxAmount {
		return nil, ErrInvalidAmount
	}
	if kind == UnitKindUniqueItem {
		if perUnitAmount != 1 || totalAmount > 1 {
			return nil, ErrInvalidUniqueItemQuantity
		}
	}
	if totalAmount%perUnitAmount != 0 {
		return nil, ErrInvalidRewardUnitDivision
	}
	if !kind.HasItemID() {
		itemID = ""
	}
	return &RewardEntry{
		source:        source,
		kind:          kind,
		itemID:        itemID,
		totalAmount:   totalAmount,
		perUnitAmount: perUnitAmount,
	}, nil
}

// Source 資産ソースを返す
func (e *RewardEntry) Source() string {
	return e.source
}

// Kind 単位種別を返す
func (e *RewardEntry) Kind() UnitKind {
	return e.kind
}

// ItemID アイテムIDを返す
func (e *RewardEntry) ItemID() string {
	return e.itemID
}

// TotalAmount エスクロー中の総量を返す
func (e *RewardEntry) TotalAmount() int64 {
	return e.totalAmount
}

// PerUnitAmount 報酬1単位あたりの数量を返す
func (e *RewardEntry) PerUnitAmount() int64 {
	return e.perUnitAmount
}

// RewardUnits 残りの報酬単位数を返す
func (e *RewardEntry) RewardUnits() int64 {
	return e.totalAmount / e.perUnitAmount
}

// IsDepleted 在庫が尽きているか
func (e *RewardEntry) IsDepleted() bool {
	return e.totalAmount == 0
}

// TakeUnit 報酬1単位を取り出す
func (e *RewardEntry) TakeUnit() (RewardUnit, error) {
	if e.totalAmount < e.perUnitAmount {
		return RewardUnit{}, ErrEntryDepleted
	}
	e.totalAmount -= e.perUnitAmount
	return RewardUnit{
		Source: e.source,
		Kind:   e.kind,
		ItemID: e.itemID,
		Amount: e.perUnitAmount,
	}, nil
}

// Clone コピーを返す
func (e *RewardEntry) Clone() *RewardEntry {
	c := *e
	return &c
}

// RewardUnit 抽選で取り出された報酬1単位
type RewardUnit struct {
	Source string
	Kind   UnitKind
	ItemID string
	Amount int64
}

// MustNewRewardEntry テスト用ヘルパー: NewRewardEntryを呼び出し、エラーが発生した場合はpanicする
func MustNewRewardEntry(source string, kind UnitKind, itemID string, totalAmount, perUnitAmount int64) *RewardEntry {
	e, err := NewRewardEntry(source, kind, itemID, totalAmount, perUnitAmount)
	if err != nil {
		panic(err)
	}
	return e
}
