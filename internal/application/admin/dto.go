package admin

// RoleRequest ロール付与・剥奪・照会リクエスト
type RoleRequest struct {
	Role    string
	Account string
}

// RoleResponse ロール操作レスポンス
type RoleResponse struct {
	Role    string
	Account string
	Granted bool
}

// PauseResponse 一時停止状態レスポンス
type PauseResponse struct {
	Paused bool
}

// SetURIRequest パックURI更新リクエスト
type SetURIRequest struct {
	PackID int64
	URI    string
}

// SetURIResponse パックURI更新レスポンス
type SetURIResponse struct {
	PackID int64
	URI    string
}

// MintAssetRequest 台帳への資産発行リクエスト
type MintAssetRequest struct {
	Source string
	Kind   string
	To     string
	ItemID string
	Amount int64
}

// AssetBalanceRequest 資産残高照会リクエスト
type AssetBalanceRequest struct {
	Source string
	ItemID string
	Owner  string
}

// AssetBalanceResponse 資産残高レスポンス
type AssetBalanceResponse struct {
	Source  string
	ItemID  string
	Owner   string
	Balance int64
}

// NativeRejectingRequest ネイティブ通貨の受け取り拒否設定リクエスト
type NativeRejectingRequest struct {
	Account   string
	Rejecting bool
}
