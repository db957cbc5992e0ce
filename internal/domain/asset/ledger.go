package asset

import "context"

// FungibleLedger 代替可能通貨の転送プロトコル
type FungibleLedger interface {
	// TransferFungible from から to へ amount 基本単位を移動
	TransferFungible(ctx context.Context, source, from, to string, amount int64) error
}

// UniqueItemLedger 唯一アイテムの転送プロトコル
type UniqueItemLedger interface {
	// TransferUnique itemID のアイテム1つを from から to へ移動
	TransferUnique(ctx context.Context, source, from, to, itemID string) error
}

// SemiFungibleLedger 半代替可能アイテムの転送プロトコル
type SemiFungibleLedger interface {
	// TransferSemiFungible itemID のアイテムを amount 個 from から to へ移動
	TransferSemiFungible(ctx context.Context, source, from, to, itemID string, amount int64) error
}

// FungibleIssuer 代替可能通貨の発行と焼却（ラップ済みネイティブ通貨の発行に使用）
type FungibleIssuer interface {
	MintFungible(ctx context.Context, source, to string, amount int64) error
	BurnFungible(ctx context.Context, source, from string, amount int64) error
}

// NativeAcceptor 受取人がネイティブ通貨を受け取れるかを判定する
type NativeAcceptor interface {
	AcceptsNative(ctx context.Context, account string) (bool, error)
}

// ItemIssuer アイテムの発行（管理API用）
type ItemIssuer interface {
	MintUnique(ctx context.Context, source, to, itemID string) error
	MintSemiFungible(ctx context.Context, source, to, itemID string, amount int64) error
}

// BalanceReader 残高照会
type BalanceReader interface {
	// BalanceOf 代替可能通貨なら itemID は空文字
	BalanceOf(ctx context.Context, source, itemID, owner string) (int64, error)
	OwnerOf(ctx context.Context, source, itemID string) (string, error)
}

// Ledger 資産台帳が提供する全機能
type Ledger interface {
	FungibleLedger
	UniqueItemLedger
	SemiFungibleLedger
	FungibleIssuer
	NativeAcceptor
	ItemIssuer
	BalanceReader
	// SetNativeRejecting ネイティブ通貨を拒否するアカウントを設定
	SetNativeRejecting(ctx context.Context, account string, rejecting bool) error
}

// DefaultNativeSource ネイティブ通貨のソース名の既定値
const DefaultNativeSource = "native"

// NativeCurrency ネイティブ通貨とそのラップ済みトークンの組
type NativeCurrency struct {
	// Source ネイティブ通貨のソース名
	Source string
	// WrappedSource ラップ済みトークンのソース名
	WrappedSource string
	// Reserve ラップ時にネイティブ通貨を預けるアカウント
	Reserve string
}

// IsNative ネイティブ通貨のソースか
func (n NativeCurrency) IsNative(source string) bool {
	return n.Source != "" && source == n.Source
}
