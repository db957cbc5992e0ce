// Package memory プロセス内メモリに状態を保持するストレージドライバ
//
// WithTransaction は作業用コピーに対して変更を行い、成功時のみ差し替える。
// トランザクション外の読み取りは常にコミット済みの状態を見る。
package memory

import (
	"context"
	"sync"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/pack"
)

type holdingKey struct {
	packID int64
	holder string
}

type balanceKey struct {
	source string
	itemID string
	owner  string
}

type itemKey struct {
	source string
	itemID string
}

type state struct {
	packs     map[int64]*pack.Pack
	maxPackID int64
	holdings  map[holdingKey]int64
	supply    map[int64]int64
	events    []*pack.Event
	roles     map[access.Role]map[string]bool
	paused    bool
	balances  map[balanceKey]int64
	owners    map[itemKey]string
	rejecting map[string]bool
}

func newState() *state {
	return &state{
		packs:     make(map[int64]*pack.Pack),
		holdings:  make(map[holdingKey]int64),
		supply:    make(map[int64]int64),
		roles:     make(map[access.Role]map[string]bool),
		balances:  make(map[balanceKey]int64),
		owners:    make(map[itemKey]string),
		rejecting: make(map[string]bool),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, p := range s.packs {
		c.packs[id] = p.Clone()
	}
	c.maxPackID = s.maxPackID
	for k, v := range s.holdings {
		c.holdings[k] = v
	}
	for k, v := range s.supply {
		c.supply[k] = v
	}
	c.events = append(c.events, s.events...)
	for role, accounts := range s.roles {
		m := make(map[string]bool, len(accounts))
		for a, ok := range accounts {
			m[a] = ok
		}
		c.roles[role] = m
	}
	c.paused = s.paused
	for k, v := range s.balances {
		c.balances[k] = v
	}
	for k, v := range s.owners {
		c.owners[k] = v
	}
	for k, v := range s.rejecting {
		c.rejecting[k] = v
	}
	return c
}

type txKey struct{}

// Store メモリ上の状態とトランザクション管理
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	committed *state
}

// NewStore 新しいStoreを作成
func NewStore() *Store {
	return &Store{committed: newState()}
}

// WithTransaction トランザクション内で関数を実行
// 既にトランザクション内であればそのトランザクションに参加する
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// read 状態を読み取る
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write 状態を変更する（トランザクション外なら単独のトランザクションで実行）
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	return s.WithTransaction(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(txKey{}).(*state))
	})
}
