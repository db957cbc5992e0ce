package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/pack"
)

// EventRepository MySQL実装のEventRepository
type EventRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewEventRepository 新しいEventRepositoryを作成
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{
		db:     db,
		tracer: otel.Tracer("event-repository"),
	}
}

type unitRecord struct {
	Source string `json:"source"`
	Kind   string `json:"kind"`
	ItemID string `json:"item_id,omitempty"`
	Amount int64  `json:"amount"`
}

// Save イベントを保存
func (r *EventRepository) Save(ctx context.Context, e *pack.Event) error {
	ctx, span := startSpan(ctx, r.tracer, "EventRepository.Save", "INSERT", "pack_events",
		attribute.String("db.event_id", e.EventID),
		attribute.Int64("db.pack_id", e.PackID),
		attribute.String("db.event_type", e.Type.String()),
	)
	defer span.End()

	var unitsJSON interface{}
	if len(e.Units) > 0 {
		records := make([]unitRecord, len(e.Units))
		for i, u := range e.Units {
			records[i] = unitRecord{Source: u.Source, Kind: u.Kind.String(), ItemID: u.ItemID, Amount: u.Amount}
		}
		b, err := json.Marshal(records)
		if err != nil {
			failSpan(span, err)
			return fmt.Errorf("failed to marshal units: %w", err)
		}
		unitsJSON = string(b)
	}

	query := `
		INSERT INTO pack_events (event_id, pack_id, event_type, actor, recipient, shares, units, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := r.db.conn(ctx).ExecContext(ctx, query,
		e.EventID,
		e.PackID,
		e.Type.String(),
		e.Actor,
		e.Recipient,
		e.Shares,
		unitsJSON,
		e.CreatedAt,
	); err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to save event: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "event saved")
	return nil
}

// FindByPackID パックIDでイベント一覧を取得（ページネーション対応）
func (r *EventRepository) FindByPackID(ctx context.Context, packID int64, limit, offset int) ([]*pack.Event, error) {
	ctx, span := startSpan(ctx, r.tracer, "EventRepository.FindByPackID", "SELECT", "pack_events",
		attribute.Int64("db.pack_id", packID),
		attribute.Int("db.limit", limit),
		attribute.Int("db.offset", offset),
	)
	defer span.End()

	query := `
		SELECT event_id, pack_id, event_type, actor, recipient, shares, units, created_at
		FROM pack_events
		WHERE pack_id = ?
		ORDER BY created_at ASC, event_id ASC
		LIMIT ? OFFSET ?
	`
	rows, err := r.db.conn(ctx).QueryContext(ctx, query, packID, limit, offset)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	defer rows.Close()

	var events []*pack.Event
	for rows.Next() {
		var (
			e         pack.Event
			eventType string
			units     sql.NullString
			createdAt time.Time
		)
		if err := rows.Scan(&e.EventID, &e.PackID, &eventType, &e.Actor, &e.Recipient, &e.Shares, &units, &createdAt); err != nil {
			failSpan(span, err)
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		t, err := pack.NewEventType(eventType)
		if err != nil {
			return nil, fmt.Errorf("invalid event type: %w", err)
		}
		e.Type = t
		e.CreatedAt = createdAt

		if units.Valid && units.String != "" {
			var records []unitRecord
			if err := json.Unmarshal([]byte(units.String), &records); err != nil {
				return nil, fmt.Errorf("failed to unmarshal units: %w", err)
			}
			for _, rec := range records {
				e.Units = append(e.Units, asset.RewardUnit{
					Source: rec.Source,
					Kind:   asset.UnitKind(rec.Kind),
					ItemID: rec.ItemID,
					Amount: rec.Amount,
				})
			}
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	span.SetAttributes(attribute.Int("db.count", len(events)))
	span.SetStatus(otelcodes.Ok, "events found")
	return events, nil
}
