package handler

// RoleRequest ロール操作リクエスト
// @Description ロール操作リクエスト
type RoleRequest struct {
	Role    string `json:"role" example:"minter" enums:"admin,minter,transfer,asset"`
	Account string `json:"account" example:"creator"`
}

// RoleResponse ロール操作レスポンス
// @Description ロール操作レスポンス
type RoleResponse struct {
	Role    string `json:"role" example:"minter"`
	Account string `json:"account" example:"creator"`
	Granted bool   `json:"granted" example:"true"`
}

// PauseResponse 一時停止状態レスポンス
// @Description 一時停止状態レスポンス
type PauseResponse struct {
	Paused bool `json:"paused" example:"false"`
}

// SetURIRequest パックURI更新リクエスト
// @Description パックURI更新リクエスト
type SetURIRequest struct {
	URI string `json:"uri" example:"ipfs://pack/1"`
}

// SetURIResponse パックURI更新レスポンス
// @Description パックURI更新レスポンス
type SetURIResponse struct {
	PackID int64  `json:"pack_id" example:"1"`
	URI    string `json:"uri" example:"ipfs://pack/1"`
}

// MintAssetRequest 資産発行リクエスト
// @Description 資産発行リクエスト
type MintAssetRequest struct {
	Source string `json:"source" example:"gold"`
	Kind   string `json:"kind" example:"fungible_currency" enums:"fungible_currency,unique_item,semi_fungible_item"`
	To     string `json:"to" example:"creator"`
	ItemID string `json:"item_id,omitempty" example:""`
	Amount string `json:"amount,omitempty" example:"100"`
}

// AssetBalanceResponse 資産残高レスポンス
// @Description 資産残高レスポンス
type AssetBalanceResponse struct {
	Source  string `json:"source" example:"gold"`
	ItemID  string `json:"item_id,omitempty" example:""`
	Owner   string `json:"owner" example:"creator"`
	Balance string `json:"balance" example:"100"`
}

// NativeRejectingRequest ネイティブ通貨の受け取り拒否設定リクエスト
// @Description ネイティブ通貨の受け取り拒否設定リクエスト
type NativeRejectingRequest struct {
	Rejecting bool `json:"rejecting" example:"true"`
}
