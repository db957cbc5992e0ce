package memory

import (
	"context"
	"fmt"

	"pack-vault/internal/domain/pack"
)

// PackRepository パックリポジトリの実装
type PackRepository struct {
	store *Store
}

// NewPackRepository 新しいPackRepositoryを作成
func NewPackRepository(store *Store) *PackRepository {
	return &PackRepository{store: store}
}

// NextID 次のパックIDを返す
func (r *PackRepository) NextID(ctx context.Context) (int64, error) {
	var id int64
	err := r.store.read(ctx, func(st *state) error {
		id = st.maxPackID + 1
		return nil
	})
	return id, err
}

// Create パックを作成
func (r *PackRepository) Create(ctx context.Context, p *pack.Pack) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.packs[p.ID()]; ok {
			return fmt.Errorf("pack %d already exists", p.ID())
		}
		st.packs[p.ID()] = p.Clone()
		if p.ID() > st.maxPackID {
			st.maxPackID = p.ID()
		}
		return nil
	})
}

// FindByID パックIDでパックを取得
func (r *PackRepository) FindByID(ctx context.Context, id int64) (*pack.Pack, error) {
	var found *pack.Pack
	err := r.store.read(ctx, func(st *state) error {
		p, ok := st.packs[id]
		if !ok {
			return pack.ErrPackNotFound
		}
		found = p.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// SaveContents 開封後の在庫を保存
func (r *PackRepository) SaveContents(ctx context.Context, p *pack.Pack) error {
	return r.store.write(ctx, func(st *state) error {
		stored, ok := st.packs[p.ID()]
		if !ok {
			return pack.ErrPackNotFound
		}
		updated := p.Clone()
		updated.SetURI(stored.URI())
		st.packs[p.ID()] = updated
		return nil
	})
}

// SetURI メタデータURIを設定
func (r *PackRepository) SetURI(ctx context.Context, packID int64, uri string) error {
	return r.store.write(ctx, func(st *state) error {
		p, ok := st.packs[packID]
		if !ok {
			return pack.ErrPackNotFound
		}
		p.SetURI(uri)
		return nil
	})
}

// URI メタデータURIを取得
func (r *PackRepository) URI(ctx context.Context, packID int64) (string, error) {
	var uri string
	err := r.store.read(ctx, func(st *state) error {
		p, ok := st.packs[packID]
		if !ok {
			return pack.ErrPackNotFound
		}
		uri = p.URI()
		return nil
	})
	return uri, err
}
