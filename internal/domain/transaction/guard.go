package transaction

import (
	"context"
)

// Guard 状態を変更する操作の同時実行・再入を防ぐガード
// 取得できない場合は待たずにErrReentrantCallを返す
type Guard interface {
	// TryAcquire ガードを取得し、解放関数を返す
	TryAcquire(ctx context.Context) (release func(), err error)
}

// Guarded ガードを取得してfnを実行し、どの経路でも必ず解放する
func Guarded(ctx context.Context, g Guard, fn func(ctx context.Context) error) error {
	release, err := g.TryAcquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(ctx)
}
