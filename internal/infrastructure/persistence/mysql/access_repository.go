package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"pack-vault/internal/domain/access"
)

const pausedFlag = "paused"

// RoleRepository MySQL実装のRoleRepository
type RoleRepository struct {
	db     *DB
	tracer trace.Tracer
}

// NewRoleRepository 新しいRoleRepositoryを作成
func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{
		db:     db,
		tracer: otel.Tracer("role-repository"),
	}
}

// HasRole ロールを持っているか
func (r *RoleRepository) HasRole(ctx context.Context, role access.Role, account string) (bool, error) {
	ctx, span := startSpan(ctx, r.tracer, "RoleRepository.HasRole", "SELECT", "roles",
		attribute.String("db.role", role.String()),
		attribute.String("db.account", account),
	)
	defer span.End()

	var one int
	err := r.db.conn(ctx).QueryRowContext(ctx, `SELECT 1 FROM roles WHERE role = ? AND account = ?`, role.String(), account).Scan(&one)
	if err == sql.ErrNoRows {
		span.SetStatus(otelcodes.Ok, "role not granted")
		return false, nil
	}
	if err != nil {
		failSpan(span, err)
		return false, fmt.Errorf("failed to check role: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "role granted")
	return true, nil
}

// Grant ロールを付与
func (r *RoleRepository) Grant(ctx context.Context, role access.Role, account string) error {
	ctx, span := startSpan(ctx, r.tracer, "RoleRepository.Grant", "INSERT", "roles",
		attribute.String("db.role", role.String()),
		attribute.String("db.account", account),
	)
	defer span.End()

	if _, err := r.db.conn(ctx).ExecContext(ctx, `INSERT IGNORE INTO roles (role, account) VALUES (?, ?)`, role.String(), account); err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to grant role: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "role granted")
	return nil
}

// Revoke ロールを剥奪
func (r *RoleRepository) Revoke(ctx context.Context, role access.Role, account string) error {
	ctx, span := startSpan(ctx, r.tracer, "RoleRepository.Revoke", "DELETE", "roles",
		attribute.String("db.role", role.String()),
		attribute.String("db.account", account),
	)
	defer span.End()

	if _, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM roles WHERE role = ? AND account = ?`, role.String(), account); err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to revoke role: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "role revoked")
	return nil
}

// PauseState MySQL実装のPauseState
type PauseState struct {
	db     *DB
	tracer trace.Tracer
}

// NewPauseState 新しいPauseStateを作成
func NewPauseState(db *DB) *PauseState {
	return &PauseState{
		db:     db,
		tracer: otel.Tracer("pause-state"),
	}
}

// IsPaused 一時停止中か
func (p *PauseState) IsPaused(ctx context.Context) (bool, error) {
	ctx, span := startSpan(ctx, p.tracer, "PauseState.IsPaused", "SELECT", "system_flags")
	defer span.End()

	var paused bool
	err := p.db.conn(ctx).QueryRowContext(ctx, `SELECT value FROM system_flags WHERE name = ?`, pausedFlag).Scan(&paused)
	if err != nil && err != sql.ErrNoRows {
		failSpan(span, err)
		return false, fmt.Errorf("failed to get pause state: %w", err)
	}

	span.SetAttributes(attribute.Bool("db.paused", paused))
	span.SetStatus(otelcodes.Ok, "pause state found")
	return paused, nil
}

// SetPaused 一時停止状態を設定
func (p *PauseState) SetPaused(ctx context.Context, paused bool) error {
	ctx, span := startSpan(ctx, p.tracer, "PauseState.SetPaused", "UPSERT", "system_flags",
		attribute.Bool("db.paused", paused),
	)
	defer span.End()

	query := `
		INSERT INTO system_flags (name, value)
		VALUES (?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value)
	`
	if _, err := p.db.conn(ctx).ExecContext(ctx, query, pausedFlag, paused); err != nil {
		failSpan(span, err)
		return fmt.Errorf("failed to set pause state: %w", err)
	}

	span.SetStatus(otelcodes.Ok, "pause state set")
	return nil
}
