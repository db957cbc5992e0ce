package pack

import (
	"context"
)

// PackRepository パックリポジトリインターフェース
type PackRepository interface {
	// NextID 次のパックID（既存の最大値+1）を返す
	NextID(ctx context.Context) (int64, error)

	// Create パックを作成
	Create(ctx context.Context, p *Pack) error

	// FindByID パックIDでパックを取得
	FindByID(ctx context.Context, id int64) (*Pack, error)

	// SaveContents 開封後の在庫を保存
	SaveContents(ctx context.Context, p *Pack) error
}

// MetadataStore パックのメタデータURIストア
type MetadataStore interface {
	SetURI(ctx context.Context, packID int64, uri string) error
	URI(ctx context.Context, packID int64) (string, error)
}

// EventRepository イベント記録リポジトリインターフェース
type EventRepository interface {
	// Save イベントを保存
	Save(ctx context.Context, e *Event) error

	// FindByPackID パックIDでイベント一覧を取得（ページネーション対応）
	FindByPackID(ctx context.Context, packID int64, limit, offset int) ([]*Event, error)
}

// EventPublisher コミット済みイベントの外部通知
type EventPublisher interface {
	Publish(ctx context.Context, e *Event) error
}
