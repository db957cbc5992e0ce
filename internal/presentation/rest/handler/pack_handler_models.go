package handler

import "time"

// ErrorResponse エラーレスポンス
// @Description エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error" example:"state_error"`
	Message string `json:"message" example:"state error: insufficient shares"`
}

// ContentInputModel パック作成時の在庫1行
// @Description パック作成時の在庫1行
type ContentInputModel struct {
	Source        string `json:"source" example:"gold"`
	Kind          string `json:"kind" example:"fungible_currency" enums:"fungible_currency,unique_item,semi_fungible_item"`
	ItemID        string `json:"item_id,omitempty" example:"42"`
	TotalAmount   string `json:"total_amount" example:"100"`
	PerUnitAmount string `json:"per_unit_amount" example:"10"`
}

// CreatePackRequest パック作成リクエスト
// @Description パック作成リクエスト
type CreatePackRequest struct {
	Contents           []ContentInputModel `json:"contents"`
	URI                string              `json:"uri" example:"ipfs://pack/1"`
	OpenEligibleAt     int64               `json:"open_eligible_at" example:"1700000000"`
	RewardUnitsPerOpen string              `json:"reward_units_per_open" example:"1"`
	Recipient          string              `json:"recipient" example:"alice"`
}

// CreatePackResponse パック作成レスポンス
// @Description パック作成レスポンス
type CreatePackResponse struct {
	PackID      int64  `json:"pack_id" example:"1"`
	TotalSupply string `json:"total_supply" example:"11"`
	Creator     string `json:"creator" example:"creator"`
	Recipient   string `json:"recipient" example:"alice"`
}

// OpenPackRequest パック開封リクエスト
// @Description パック開封リクエスト
type OpenPackRequest struct {
	Shares string `json:"shares" example:"1"`
}

// RewardUnitModel 抽選された報酬1単位
// @Description 抽選された報酬1単位
type RewardUnitModel struct {
	Source string `json:"source" example:"gold"`
	Kind   string `json:"kind" example:"fungible_currency"`
	ItemID string `json:"item_id,omitempty" example:""`
	Amount string `json:"amount" example:"10"`
}

// OpenPackResponse パック開封レスポンス
// @Description パック開封レスポンス
type OpenPackResponse struct {
	PackID      int64             `json:"pack_id" example:"1"`
	Opener      string            `json:"opener" example:"alice"`
	Shares      string            `json:"shares" example:"1"`
	Units       []RewardUnitModel `json:"units"`
	BlockNumber uint64            `json:"block_number" example:"19000000"`
	Seed        string            `json:"seed" example:"0x5f1c..."`
}

// TransferSharesRequest シェア転送リクエスト
// @Description シェア転送リクエスト
type TransferSharesRequest struct {
	To     string `json:"to" example:"bob"`
	Amount string `json:"amount" example:"2"`
}

// TransferSharesResponse シェア転送レスポンス
// @Description シェア転送レスポンス
type TransferSharesResponse struct {
	PackID  int64  `json:"pack_id" example:"1"`
	From    string `json:"from" example:"alice"`
	To      string `json:"to" example:"bob"`
	Amount  string `json:"amount" example:"2"`
	Balance string `json:"balance" example:"9"`
}

// ContentEntryModel 在庫1行の状態
// @Description 在庫1行の状態
type ContentEntryModel struct {
	Source        string `json:"source" example:"gold"`
	Kind          string `json:"kind" example:"fungible_currency"`
	ItemID        string `json:"item_id,omitempty" example:""`
	TotalAmount   string `json:"total_amount" example:"100"`
	PerUnitAmount string `json:"per_unit_amount" example:"10"`
	RewardUnits   string `json:"reward_units" example:"10"`
}

// PackContentsResponse パック在庫レスポンス
// @Description パック在庫レスポンス
type PackContentsResponse struct {
	PackID   int64               `json:"pack_id" example:"1"`
	Contents []ContentEntryModel `json:"contents"`
}

// PackResponse パック情報レスポンス
// @Description パック情報レスポンス
type PackResponse struct {
	PackID             int64               `json:"pack_id" example:"1"`
	URI                string              `json:"uri" example:"ipfs://pack/1"`
	OpenEligibleAt     int64               `json:"open_eligible_at" example:"1700000000"`
	RewardUnitsPerOpen string              `json:"reward_units_per_open" example:"1"`
	Creator            string              `json:"creator" example:"creator"`
	CreatedAt          time.Time           `json:"created_at"`
	TotalSupply        string              `json:"total_supply" example:"11"`
	RemainingUnits     string              `json:"remaining_units" example:"11"`
	Contents           []ContentEntryModel `json:"contents"`
}

// SupplyResponse 発行済みシェア数レスポンス
// @Description 発行済みシェア数レスポンス
type SupplyResponse struct {
	PackID      int64  `json:"pack_id" example:"1"`
	TotalSupply string `json:"total_supply" example:"11"`
}

// ShareBalanceResponse 保有シェア数レスポンス
// @Description 保有シェア数レスポンス
type ShareBalanceResponse struct {
	PackID  int64  `json:"pack_id" example:"1"`
	Holder  string `json:"holder" example:"alice"`
	Balance string `json:"balance" example:"3"`
}

// EventModel パックイベント
// @Description パックイベント
type EventModel struct {
	EventID   string            `json:"event_id" example:"0b7c..."`
	Type      string            `json:"type" example:"pack_opened" enums:"pack_created,pack_opened,shares_transferred"`
	Actor     string            `json:"actor" example:"alice"`
	Recipient string            `json:"recipient,omitempty" example:"alice"`
	Shares    string            `json:"shares" example:"1"`
	Units     []RewardUnitModel `json:"units,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// EventsResponse パックイベント一覧レスポンス
// @Description パックイベント一覧レスポンス
type EventsResponse struct {
	PackID int64        `json:"pack_id" example:"1"`
	Events []EventModel `json:"events"`
	Limit  int          `json:"limit" example:"20"`
	Offset int          `json:"offset" example:"0"`
}
