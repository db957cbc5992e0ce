package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/pack"
)

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// EventMessage 通知されるイベントのJSON表現
type EventMessage struct {
	EventID   string        `json:"event_id"`
	PackID    int64         `json:"pack_id"`
	Type      string        `json:"type"`
	Actor     string        `json:"actor"`
	Recipient string        `json:"recipient"`
	Shares    int64         `json:"shares"`
	Units     []UnitMessage `json:"units,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// UnitMessage 報酬1単位のJSON表現
type UnitMessage struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
	ItemID string `json:"item_id,omitempty"`
	Amount int64  `json:"amount"`
}

// NewEventMessage イベントからメッセージを作成
func NewEventMessage(e *pack.Event) EventMessage {
	msg := EventMessage{
		EventID:   e.EventID,
		PackID:    e.PackID,
		Type:      e.Type.String(),
		Actor:     e.Actor,
		Recipient: e.Recipient,
		Shares:    e.Shares,
		CreatedAt: e.CreatedAt,
	}
	for _, u := range e.Units {
		msg.Units = append(msg.Units, UnitMessage{
			Source: u.Source,
			Kind:   u.Kind.String(),
			ItemID: u.ItemID,
			Amount: u.Amount,
		})
	}
	return msg
}

// RedisEventPublisher コミット済みのイベントをRedisのチャネルへ通知する
type RedisEventPublisher struct {
	client  publisher
	channel string
	tracer  trace.Tracer
}

// NewRedisEventPublisher 新しいRedisEventPublisherを作成
func NewRedisEventPublisher(client publisher, channel string) *RedisEventPublisher {
	return &RedisEventPublisher{
		client:  client,
		channel: channel,
		tracer:  otel.Tracer("event-publisher"),
	}
}

// Publish イベントを通知
func (p *RedisEventPublisher) Publish(ctx context.Context, e *pack.Event) error {
	ctx, span := p.tracer.Start(ctx, "RedisEventPublisher.Publish")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "redis"),
		attribute.String("messaging.destination", p.channel),
		attribute.String("event_id", e.EventID),
		attribute.String("event_type", e.Type.String()),
	)

	payload, err := json.Marshal(NewEventMessage(e))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return fmt.Errorf("failed to publish event: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "event published")
	return nil
}

// NopEventPublisher 通知先を持たない場合のEventPublisher
type NopEventPublisher struct{}

// Publish 何もしない
func (NopEventPublisher) Publish(context.Context, *pack.Event) error {
	return nil
}
