package pack

import (
	"fmt"
	"time"

	"pack-vault/internal/domain/asset"
)

// EventType イベント種別を表す値オブジェクト
type EventType string

const (
	EventTypeCreated           EventType = "pack_created"       // パック作成
	EventTypeOpened            EventType = "pack_opened"        // パック開封
	EventTypeSharesTransferred EventType = "shares_transferred" // シェア転送
)

// NewEventType 新しいEventTypeを作成
func NewEventType(s string) (EventType, error) {
	switch s {
	case "pack_created", "pack_opened", "shares_transferred":
		return EventType(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidEventType, s)
	}
}

// String 文字列表現を返す
func (t EventType) String() string {
	return string(t)
}

// Event パックに関する記録（作成・開封・転送）
type Event struct {
	EventID   string
	PackID    int64
	Type      EventType
	Actor     string
	Recipient string
	Shares    int64
	Units     []asset.RewardUnit
	CreatedAt time.Time
}

// NewCreatedEvent 作成イベントを生成
func NewCreatedEvent(eventID string, p *Pack, recipient string, shares int64) *Event {
	return &Event{
		EventID:   eventID,
		PackID:    p.ID(),
		Type:      EventTypeCreated,
		Actor:     p.Creator(),
		Recipient: recipient,
		Shares:    shares,
		CreatedAt: time.Now(),
	}
}

// NewOpenedEvent 開封イベントを生成
func NewOpenedEvent(eventID string, packID int64, opener string, shares int64, units []asset.RewardUnit) *Event {
	return &Event{
		EventID:   eventID,
		PackID:    packID,
		Type:      EventTypeOpened,
		Actor:     opener,
		Recipient: opener,
		Shares:    shares,
		Units:     units,
		CreatedAt: time.Now(),
	}
}

// NewSharesTransferredEvent シェア転送イベントを生成
func NewSharesTransferredEvent(eventID string, packID int64, from, to string, shares int64) *Event {
	return &Event{
		EventID:   eventID,
		PackID:    packID,
		Type:      EventTypeSharesTransferred,
		Actor:     from,
		Recipient: to,
		Shares:    shares,
		CreatedAt: time.Now(),
	}
}
