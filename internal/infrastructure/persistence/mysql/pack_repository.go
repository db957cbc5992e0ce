package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/pack"
)

// PackRepository MySQL実装のPackRepositoryとMetadataStore
type PackRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewPackRepository 新しいPackRepositoryを作成
func NewPackRepository(db *DB) *PackRepository {
	return &PackRepository{
		db:     db,
		tracer: otel.Tracer("pack-repository"),
	}
}

// NextID 次のパックID（既存の最大値+1）を返す
func (r *PackRepository) NextID(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, r.tracer, "PackRepository.NextID", "SELECT", "packs")
	defer span.End()

	query := `SELECT COALESCE(MAX(id), 0) + 1 FROM packs` + r.db.lockClause(ctx)

	var id int64
	if err := r.db.conn(ctx).QueryRowContext(ctx, query).Scan(&id); err != nil {
		failSpan(span, err)
		return 0, fmt.Errorf("failed to get next pack id: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.pack_id", id))
	span.SetStatus(otelcodes.Ok, "next pack id")
	return id, nil
}

// Create パックと在庫を作成
func (r *PackRepository) Create(ctx context.Context, p *pack.Pack) error {
	ctx, span := startSpan(ctx, r.tracer, "PackRepository.Create", "INSERT", "packs",
		attribute.Int64("db.pack_id", p.ID()),
		attribute.Int("db.entry_count", len(p.Contents())),
	)
	defer span.End()

	conn := r.db.conn(ctx)

	query := `
		INSERT INTO packs (id, uri, open_eligible_at, reward_units_per_open, creator, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := conn.ExecContext(ctx, query,
		p.ID(),
		p.URI(),
		p.OpenEligibleAt(),
		p.RewardUnitsPerOpen(),
		p.Creator(),
		p.CreatedAt(),
	); err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to create pack: %w", err)
	}

	contentsQuery := `
		INSERT INTO pack_contents (pack_id, position, source, unit_kind, item_id, total_amount, per_unit_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, e := range p.Contents() {
		if _, err := conn.ExecContext(ctx, contentsQuery,
			p.ID(),
			i,
			e.Source(),
			e.Kind().String(),
			e.ItemID(),
			e.TotalAmount(),
			e.PerUnitAmount(),
		); err != nil {
			failSpan(span, err)
			return fmt.Errorf("failed to create pack contents: %w", err)
		}
	}

	span.SetStatus(otelcodes.Ok, "pack created")
	return nil
}

// FindByID パックIDでパックを取得
func (r *PackRepository) FindByID(ctx context.Context, id int64) (*pack.Pack, error) {
	ctx, span := startSpan(ctx, r.tracer, "PackRepository.FindByID", "SELECT", "packs",
		attribute.Int64("db.pack_id", id),
	)
	defer span.End()

	conn := r.db.conn(ctx)

	query := `
		SELECT id, uri, open_eligible_at, reward_units_per_open, creator, created_at
		FROM packs
		WHERE id = ?
	` + r.db.lockClause(ctx)

	var (
		packID             int64
		uri                string
		openEligibleAt     int64
		rewardUnitsPerOpen int64
		creator            string
		createdAt          time.Time
	)
	err := conn.QueryRowContext(ctx, query, id).Scan(
		&packID,
		&uri,
		&openEligibleAt,
		&rewardUnitsPerOpen,
		&creator,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "pack not found")
		return nil, pack.ErrPackNotFound
	}
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("failed to find pack: %w", err)
	}

	contentsQuery := `
		SELECT source, unit_kind, item_id, total_amount, per_unit_amount
		FROM pack_contents
		WHERE pack_id = ?
		ORDER BY position ASC
	`
	rows, err := conn.QueryContext(ctx, contentsQuery, id)
	if err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("failed to find pack contents: %w", err)
	}
	defer rows.Close()

	var contents []*asset.RewardEntry
	for rows.Next() {
		var (
			source        string
			unitKind      string
			itemID        string
			totalAmount   int64
			perUnitAmount int64
		)
		if err := rows.Scan(&source, &unitKind, &itemID, &totalAmount, &perUnitAmount); err != nil {
			failSpan(span, err)
			return nil, fmt.Errorf("failed to scan pack contents: %w", err)
		}
		kind, err := asset.NewUnitKind(unitKind)
		if err != nil {
			return nil, fmt.Errorf("invalid unit kind: %w", err)
		}
		e, err := asset.RestoreRewardEntry(source, kind, itemID, totalAmount, perUnitAmount)
		if err != nil {
			return nil, fmt.Errorf("failed to reconstruct reward entry: %w", err)
		}
		contents = append(contents, e)
	}
	if err := rows.Err(); err != nil {
		failSpan(span, err)
		return nil, fmt.Errorf("failed to iterate pack contents: %w", err)
	}

	span.SetAttributes(attribute.Int("db.entry_count", len(contents)))
	span.SetStatus(otelcodes.Ok, "pack found")

	return pack.RestorePack(packID, uri, openEligibleAt, rewardUnitsPerOpen, contents, creator, createdAt), nil
}

// SaveContents 開封後の在庫を保存
func (r *PackRepository) SaveContents(ctx context.Context, p *pack.Pack) error {
	ctx, span := startSpan(ctx, r.tracer, "PackRepository.SaveContents", "UPDATE", "pack_contents",
		attribute.Int64("db.pack_id", p.ID()),
	)
	defer span.End()

	conn := r.db.conn(ctx)

	query := `
		UPDATE pack_contents
		SET total_amount = ?
		WHERE pack_id = ? AND position = ?
	`
	for i, e := range p.Contents() {
		if _, err := conn.ExecContext(ctx, query, e.TotalAmount(), p.ID(), i); err != nil {
			failSpan(span, err)
			return fmt.Errorf("failed to save pack contents: %w", err)
		}
	}

	span.SetStatus(otelcodes.Ok, "pack contents saved")
	return nil
}

// SetURI メタデータURIを設定
func (r *PackRepository) SetURI(ctx context.Context, packID int64, uri string) error {
	ctx, span := startSpan(ctx, r.tracer, "PackRepository.SetURI", "UPDATE", "packs",
		attribute.Int64("db.pack_id", packID),
	)
	defer span.End()

	result, err := r.db.conn(ctx).ExecContext(ctx, `UPDATE packs SET uri = ? WHERE id = ?`, uri, packID)
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to set pack uri: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// 同じ値での更新も0件になるため存在を確認する
		if _, err := r.URI(ctx, packID); err != nil {
			return err
		}
	}

	span.SetStatus(otelcodes.Ok, "pack uri set")
	return nil
}

// URI メタデータURIを取得
func (r *PackRepository) URI(ctx context.Context, packID int64) (string, error) {
	ctx, span := startSpan(ctx, r.tracer, "PackRepository.URI", "SELECT", "packs",
		attribute.Int64("db.pack_id", packID),
	)
	defer span.End()

	var uri string
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT uri FROM packs WHERE id = ?`, packID).Scan(&uri)
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "pack not found")
		return "", pack.ErrPackNotFound
	}
	if err != nil {
		failSpan(span, err)
		return "", fmt.Errorf("failed to get pack uri: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "pack uri found")
	return uri, nil
}
