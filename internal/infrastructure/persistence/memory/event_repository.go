package memory

import (
	"context"

	"pack-vault/internal/domain/pack"
)

// EventRepository イベント記録リポジトリの実装
type EventRepository struct {
	store *Store
}

// NewEventRepository 新しいEventRepositoryを作成
func NewEventRepository(store *Store) *EventRepository {
	return &EventRepository{store: store}
}

// Save イベントを保存
func (r *EventRepository) Save(ctx context.Context, e *pack.Event) error {
	return r.store.write(ctx, func(st *state) error {
		c := *e
		st.events = append(st.events, &c)
		return nil
	})
}

// FindByPackID パックIDでイベント一覧を記録順に取得
func (r *EventRepository) FindByPackID(ctx context.Context, packID int64, limit, offset int) ([]*pack.Event, error) {
	var events []*pack.Event
	err := r.store.read(ctx, func(st *state) error {
		skipped := 0
		for _, e := range st.events {
			if e.PackID != packID {
				continue
			}
			if skipped < offset {
				skipped++
				continue
			}
			if limit > 0 && len(events) >= limit {
				break
			}
			c := *e
			events = append(events, &c)
		}
		return nil
	})
	return events, err
}
