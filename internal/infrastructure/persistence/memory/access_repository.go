package memory

import (
	"context"

	"pack-vault/internal/domain/access"
)

// RoleRepository ロールリポジトリの実装
type RoleRepository struct {
	store *Store
}

// NewRoleRepository 新しいRoleRepositoryを作成
func NewRoleRepository(store *Store) *RoleRepository {
	return &RoleRepository{store: store}
}

// HasRole ロールを持っているか
func (r *RoleRepository) HasRole(ctx context.Context, role access.Role, account string) (bool, error) {
	var ok bool
	err := r.store.read(ctx, func(st *state) error {
		ok = st.roles[role][account]
		return nil
	})
	return ok, err
}

// Grant ロールを付与
func (r *RoleRepository) Grant(ctx context.Context, role access.Role, account string) error {
	return r.store.write(ctx, func(st *state) error {
		if st.roles[role] == nil {
			st.roles[role] = make(map[string]bool)
		}
		st.roles[role][account] = true
		return nil
	})
}

// Revoke ロールを剥奪
func (r *RoleRepository) Revoke(ctx context.Context, role access.Role, account string) error {
	return r.store.write(ctx, func(st *state) error {
		delete(st.roles[role], account)
		return nil
	})
}

// PauseState 一時停止状態の実装
type PauseState struct {
	store *Store
}

// NewPauseState 新しいPauseStateを作成
func NewPauseState(store *Store) *PauseState {
	return &PauseState{store: store}
}

// IsPaused 一時停止中か
func (p *PauseState) IsPaused(ctx context.Context) (bool, error) {
	var paused bool
	err := p.store.read(ctx, func(st *state) error {
		paused = st.paused
		return nil
	})
	return paused, err
}

// SetPaused 一時停止状態を設定
func (p *PauseState) SetPaused(ctx context.Context, paused bool) error {
	return p.store.write(ctx, func(st *state) error {
		st.paused = paused
		return nil
	})
}
