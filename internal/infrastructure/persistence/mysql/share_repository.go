package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/receipt"
)

// ShareRepository MySQL実装のShareRepository
type ShareRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewShareRepository 新しいShareRepositoryを作成
func NewShareRepository(db *DB) *ShareRepository {
	return &ShareRepository{
		db:     db,
		tracer: otel.Tracer("share-repository"),
	}
}

// FindHolding 保有残高を取得（未保有の場合は残高0）
func (r *ShareRepository) FindHolding(ctx context.Context, packID int64, holder string) (*receipt.Holding, error) {
	ctx, span := startSpan(ctx, r.tracer, "ShareRepository.FindHolding", "SELECT", "share_holdings",
		attribute.Int64("db.pack_id", packID),
		attribute.String("db.holder", holder),
	)
	defer span.End()

	query := `
		SELECT balance
		FROM share_holdings
		WHERE pack_id = ? AND holder = ?
	` + r.db.lockClause(ctx)

	var balance int64
	err := r.db.conn(ctx).QueryRowContext(ctx, query, packID, holder).Scan(&balance)
	if err != nil && err != sql.ErrNoRows {
		failSpan(span, err)
		return nil, fmt.Errorf("failed to find share holding: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.balance", balance))
	span.SetStatus(otelcodes.Ok, "share holding found")
	return receipt.NewHolding(packID, holder, balance)
}

// SaveHolding 保有残高を保存
func (r *ShareRepository) SaveHolding(ctx context.Context, h *receipt.Holding) error {
	ctx, span := startSpan(ctx, r.tracer, "ShareRepository.SaveHolding", "UPSERT", "share_holdings",
		attribute.Int64("db.pack_id", h.PackID()),
		attribute.String("db.holder", h.Holder()),
		attribute.Int64("db.balance", h.Balance()),
	)
	defer span.End()

	query := `
		INSERT INTO share_holdings (pack_id, holder, balance)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE balance = VALUES(balance)
	`
	if _, err := r.db.conn(ctx).ExecContext(ctx, query, h.PackID(), h.Holder(), h.Balance()); err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to save share holding: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "share holding saved")
	return nil
}

// TotalSupply 流通量を取得（パックが無い場合は0）
func (r *ShareRepository) TotalSupply(ctx context.Context, packID int64) (int64, error) {
	ctx, span := startSpan(ctx, r.tracer, "ShareRepository.TotalSupply", "SELECT", "share_supply",
		attribute.Int64("db.pack_id", packID),
	)
	defer span.End()

	var supply int64
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT supply FROM share_supply WHERE pack_id = ?`, packID).Scan(&supply)
	if err != nil && err != sql.ErrNoRows {
		failSpan(span, err)
		return 0, fmt.Errorf("failed to get total supply: %w", err)
	}

	span.SetAttributes(attribute.Int64("db.supply", supply))
	span.SetStatus(otelcodes.Ok, "total supply found")
	return supply, nil
}

// InitSupply パック作成時に流通量を設定
func (r *ShareRepository) InitSupply(ctx context.Context, packID int64, supply int64) error {
	ctx, span := startSpan(ctx, r.tracer, "ShareRepository.InitSupply", "INSERT", "share_supply",
		attribute.Int64("db.pack_id", packID),
		attribute.Int64("db.supply", supply),
	)
	defer span.End()

	_, err := r.db.conn(ctx).ExecContext(ctx, `INSERT INTO share_supply (pack_id, supply) VALUES (?, ?)`, packID, supply)
	if isDuplicateEntry(err) {
		failSpan(span, err)
		return receipt.ErrSupplyAlreadyMinted
	}
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to init supply: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "supply initialized")
	return nil
}

// DecreaseSupply 焼却に伴い流通量を減らす
func (r *ShareRepository) DecreaseSupply(ctx context.Context, packID int64, amount int64) error {
	ctx, span := startSpan(ctx, r.tracer, "ShareRepository.DecreaseSupply", "UPDATE", "share_supply",
		attribute.Int64("db.pack_id", packID),
		attribute.Int64("db.amount", amount),
	)
	defer span.End()

	query := `
		UPDATE share_supply
		SET supply = supply - ?
		WHERE pack_id = ? AND supply >= ?
	`
	result, err := r.db.conn(ctx).ExecContext(ctx, query, amount, packID, amount)
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to decrease supply: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		failSpan(span, receipt.ErrSupplyUnderflow)
		return receipt.ErrSupplyUnderflow
	}

	span.SetStatus(otelcodes.Ok, "supply decreased")
	return nil
}
