package lock

import (
	"context"
	"sync"
	"sync/atomic"

	"pack-vault/internal/domain/transaction"
)

// LocalGuard プロセス内で1つだけ保持できる再入ガード
type LocalGuard struct {
	held atomic.Bool
}

// NewLocalGuard 新しいLocalGuardを作成
func NewLocalGuard() *LocalGuard {
	return &LocalGuard{}
}

// TryAcquire ガードを取得。保持中であれば待たずにErrReentrantCallを返す
func (g *LocalGuard) TryAcquire(ctx context.Context) (func(), error) {
	if !g.held.CompareAndSwap(false, true) {
		return nil, transaction.ErrReentrantCall
	}
	var once sync.Once
	return func() {
		once.Do(func() { g.held.Store(false) })
	}, nil
}

// Held ガードが保持されているか
func (g *LocalGuard) Held() bool {
	return g.held.Load()
}
