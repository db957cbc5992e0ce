package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/asset"
)

// AssetLedger MySQL実装の資産台帳
// 代替可能通貨（item_id = ''）と半代替可能アイテムは asset_balances、唯一アイテムは unique_items に保持する
type AssetLedger struct {
	db     *DB
	tracer trace.Tracer
}

// NewAssetLedger 新しいAssetLedgerを作成
func NewAssetLedger(db *DB) *AssetLedger {
	return &AssetLedger{
		db:     db,
		tracer: otel.Tracer("asset-ledger"),
	}
}

const (
	debitBalanceQuery = `
		UPDATE asset_balances
		SET amount = amount - ?
		WHERE source = ? AND item_id = ? AND owner = ? AND amount >= ?
	`
	creditBalanceQuery = `
		INSERT INTO asset_balances (source, item_id, owner, amount)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE amount = amount + VALUES(amount)
	`
)

func (l *AssetLedger) debit(ctx context.Context, source, itemID, owner string, amount int64) error {
	if amount <= 0 {
		return asset.ErrInvalidAmount
	}
	result, err := l.db.conn(ctx).ExecContext(ctx, debitBalanceQuery, amount, source, itemID, owner, amount)
	if err != nil {
		return fmt.Errorf("failed to debit balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return asset.ErrInsufficientAssetBalance
	}
	return nil
}

func (l *AssetLedger) credit(ctx context.Context, source, itemID, owner string, amount int64) error {
	if amount <= 0 {
		return asset.ErrInvalidAmount
	}
	if _, err := l.db.conn(ctx).ExecContext(ctx, creditBalanceQuery, source, itemID, owner, amount); err != nil {
		return fmt.Errorf("failed to credit balance: %w", err)
	}
	return nil
}

func (l *AssetLedger) move(ctx context.Context, span trace.Span, source, itemID, from, to string, amount int64) error {
	if err := l.debit(ctx, source, itemID, from, amount); err != nil {
		failSpan(span, err)
		return err
	}
	if err := l.credit(ctx, source, itemID, to, amount); err != nil {
		failSpan(span, err)
		return err
	}
	span.SetStatus(otelcodes.Ok, "moved")
	return nil
}

// TransferFungible 代替可能通貨を移動
func (l *AssetLedger) TransferFungible(ctx context.Context, source, from, to string, amount int64) error {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.TransferFungible", "UPDATE", "asset_balances",
		attribute.String("db.source", source),
		attribute.Int64("db.amount", amount),
	)
	defer span.End()

	return l.move(ctx, span, source, "", from, to, amount)
}

// TransferSemiFungible 半代替可能アイテムを移動
func (l *AssetLedger) TransferSemiFungible(ctx context.Context, source, from, to, itemID string, amount int64) error {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.TransferSemiFungible", "UPDATE", "asset_balances",
		attribute.String("db.source", source),
		attribute.String("db.item_id", itemID),
		attribute.Int64("db.amount", amount),
	)
	defer span.End()

	return l.move(ctx, span, source, itemID, from, to, amount)
}

// TransferUnique 唯一アイテムを移動
func (l *AssetLedger) TransferUnique(ctx context.Context, source, from, to, itemID string) error {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.TransferUnique", "UPDATE", "unique_items",
		attribute.String("db.source", source),
		attribute.String("db.item_id", itemID),
	)
	defer span.End()

	query := `
		UPDATE unique_items
		SET owner = ?
		WHERE source = ? AND item_id = ? AND owner = ?
	`
	result, err := l.db.conn(ctx).ExecContext(ctx, query, to, source, itemID, from)
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to transfer unique item: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		if _, err := l.OwnerOf(ctx, source, itemID); err != nil {
			failSpan(span, err)
			return err
		}
		failSpan(span, asset.ErrNotItemOwner)
		return asset.ErrNotItemOwner
	}

	span.SetStatus(otelcodes.Ok, "unique item moved")
	return nil
}

// MintFungible 代替可能通貨を発行
func (l *AssetLedger) MintFungible(ctx context.Context, source, to string, amount int64) error {
	return l.MintSemiFungible(ctx, source, to, "", amount)
}

// MintSemiFungible 半代替可能アイテムを発行
func (l *AssetLedger) MintSemiFungible(ctx context.Context, source, to, itemID string, amount int64) error {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.Mint", "UPSERT", "asset_balances",
		attribute.String("db.source", source),
		attribute.String("db.item_id", itemID),
		attribute.Int64("db.amount", amount),
	)
	defer span.End()

	if err := l.credit(ctx, source, itemID, to, amount); err != nil {
		failSpan(span, err)
		return err
	}
	span.SetStatus(otelcodes.Ok, "minted")
	return nil
}

// BurnFungible 代替可能通貨を焼却
func (l *AssetLedger) BurnFungible(ctx context.Context, source, from string, amount int64) error {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.BurnFungible", "UPDATE", "asset_balances",
		attribute.String("db.source", source),
		attribute.Int64("db.amount", amount),
	)
	defer span.End()

	if err := l.debit(ctx, source, "", from, amount); err != nil {
		failSpan(span, err)
		return err
	}
	span.SetStatus(otelcodes.Ok, "burned")
	return nil
}

// MintUnique 唯一アイテムを発行
func (l *AssetLedger) MintUnique(ctx context.Context, source, to, itemID string) error {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.MintUnique", "INSERT", "unique_items",
		attribute.String("db.source", source),
		attribute.String("db.item_id", itemID),
	)
	defer span.End()

	_, err := l.db.conn(ctx).ExecContext(ctx, `INSERT INTO unique_items (source, item_id, owner) VALUES (?, ?, ?)`, source, itemID, to)
	if isDuplicateEntry(err) {
		failSpan(span, err)
		return asset.ErrItemAlreadyExists
	}
	if err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to mint unique item: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "unique item minted")
	return nil
}

// AcceptsNative ネイティブ通貨を受け取れるか
func (l *AssetLedger) AcceptsNative(ctx context.Context, account string) (bool, error) {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.AcceptsNative", "SELECT", "native_rejecting_accounts",
		attribute.String("db.account", account),
	)
	defer span.End()

	var one int
	err := l.db.conn(ctx).QueryRowContext(ctx, `SELECT 1 FROM native_rejecting_accounts WHERE account = ?`, account).Scan(&one)
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "accepts native")
		return true, nil
	}
	if err != nil {
		failSpan(span, err)
		return false, fmt.Errorf("failed to check native acceptance: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "rejects native")
	return false, nil
}

// SetNativeRejecting ネイティブ通貨を拒否するアカウントを設定
func (l *AssetLedger) SetNativeRejecting(ctx context.Context, account string, rejecting bool) error {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.SetNativeRejecting", "UPSERT", "native_rejecting_accounts",
		attribute.String("db.account", account),
		attribute.Bool("db.rejecting", rejecting),
	)
	defer span.End()

	query := `DELETE FROM native_rejecting_accounts WHERE account = ?`
	if rejecting {
		query = `INSERT IGNORE INTO native_rejecting_accounts (account) VALUES (?)`
	}
	if _, err := l.db.conn(ctx).ExecContext(ctx, query, account); err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to set native rejecting: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "native rejecting set")
	return nil
}

// BalanceOf 残高を取得（唯一アイテムは所有していれば1）
func (l *AssetLedger) BalanceOf(ctx context.Context, source, itemID, owner string) (int64, error) {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.BalanceOf", "SELECT", "asset_balances",
		attribute.String("db.source", source),
		attribute.String("db.item_id", itemID),
		attribute.String("db.owner", owner),
	)
	defer span.End()

	query := `
		SELECT amount
		FROM asset_balances
		WHERE source = ? AND item_id = ? AND owner = ?
	`
	var amount int64
	err := l.db.conn(ctx).QueryRowContext(ctx, query, source, itemID, owner).Scan(&amount)
	if err != nil && err != sql.ErrNoRows {
		failSpan(span, err)
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	if amount == 0 && itemID != "" {
		current, err := l.OwnerOf(ctx, source, itemID)
		if err == nil && current == owner {
			amount = 1
		}
	}

	span.SetAttributes(attribute.Int64("db.amount", amount))
	span.SetStatus(otelcodes.Ok, "balance found")
	return amount, nil
}

// OwnerOf 唯一アイテムの所有者を取得
func (l *AssetLedger) OwnerOf(ctx context.Context, source, itemID string) (string, error) {
	ctx, span := startSpan(ctx, l.tracer, "AssetLedger.OwnerOf", "SELECT", "unique_items",
		attribute.String("db.source", source),
		attribute.String("db.item_id", itemID),
	)
	defer span.End()

	var owner string
	err := l.db.conn(ctx).QueryRowContext(ctx, `SELECT owner FROM unique_items WHERE source = ? AND item_id = ?`, source, itemID).Scan(&owner)
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "item not found")
		return "", asset.ErrItemNotFound
	}
	if err != nil {
		failSpan(span, err)
		return "", fmt.Errorf("failed to get item owner: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "item owner found")
	return owner, nil
}
