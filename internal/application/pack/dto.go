package pack

import (
	"time"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/pack"
)

// ContentInput パック作成時の在庫1行
type ContentInput struct {
	Source        string
	Kind          string
	ItemID        string
	TotalAmount   int64
	PerUnitAmount int64
}

// CreatePackRequest パック作成リクエスト
type CreatePackRequest struct {
	Invocation         access.Invocation
	Contents           []ContentInput
	URI                string
	OpenEligibleAt     int64
	RewardUnitsPerOpen int64
	Recipient          string
}

// CreatePackResponse パック作成レスポンス
type CreatePackResponse struct {
	PackID      int64
	TotalSupply int64
	Creator     string
	Recipient   string
}

// OpenPackRequest パック開封リクエスト
type OpenPackRequest struct {
	Invocation access.Invocation
	PackID     int64
	Shares     int64
}

// OpenPackResponse パック開封レスポンス
type OpenPackResponse struct {
	PackID      int64
	Opener      string
	Shares      int64
	Units       []RewardUnit
	BlockNumber uint64
	Seed        string
}

// TransferSharesRequest シェア転送リクエスト
type TransferSharesRequest struct {
	Invocation access.Invocation
	PackID     int64
	To         string
	Amount     int64
}

// TransferSharesResponse シェア転送レスポンス
type TransferSharesResponse struct {
	PackID  int64
	From    string
	To      string
	Amount  int64
	Balance int64
}

// RewardUnit 抽選された報酬1単位
type RewardUnit struct {
	Source string
	Kind   string
	ItemID string
	Amount int64
}

// ContentEntry 在庫1行の状態
type ContentEntry struct {
	Source        string
	Kind          string
	ItemID        string
	TotalAmount   int64
	PerUnitAmount int64
	RewardUnits   int64
}

// GetPackResponse パック情報レスポンス
type GetPackResponse struct {
	PackID             int64
	URI                string
	OpenEligibleAt     int64
	RewardUnitsPerOpen int64
	Creator            string
	CreatedAt          time.Time
	TotalSupply        int64
	RemainingUnits     int64
	Contents           []ContentEntry
}

// EventEntry イベント1件
type EventEntry struct {
	EventID   string
	Type      string
	Actor     string
	Recipient string
	Shares    int64
	Units     []RewardUnit
	CreatedAt time.Time
}

// ListEventsRequest イベント一覧取得リクエスト
type ListEventsRequest struct {
	PackID int64
	Limit  int
	Offset int
}

// ListEventsResponse イベント一覧取得レスポンス
type ListEventsResponse struct {
	Events []EventEntry
	Limit  int
	Offset int
}

func toRewardUnits(units []asset.RewardUnit) []RewardUnit {
	out := make([]RewardUnit, len(units))
	for i, u := range units {
		out[i] = RewardUnit{
			Source: u.Source,
			Kind:   u.Kind.String(),
			ItemID: u.ItemID,
			Amount: u.Amount,
		}
	}
	return out
}

func toContentEntries(contents []*asset.RewardEntry) []ContentEntry {
	out := make([]ContentEntry, len(contents))
	for i, e := range contents {
		out[i] = ContentEntry{
			Source:        e.Source(),
			Kind:          e.Kind().String(),
			ItemID:        e.ItemID(),
			TotalAmount:   e.TotalAmount(),
			PerUnitAmount: e.PerUnitAmount(),
			RewardUnits:   e.RewardUnits(),
		}
	}
	return out
}

func toEventEntry(e *pack.Event) EventEntry {
	return EventEntry{
		EventID:   e.EventID,
		Type:      e.Type.String(),
		Actor:     e.Actor,
		Recipient: e.Recipient,
		Shares:    e.Shares,
		Units:     toRewardUnits(e.Units),
		CreatedAt: e.CreatedAt,
	}
}
