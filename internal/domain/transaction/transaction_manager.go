package transaction

import (
	"context"
)

// TransactionManager トランザクション管理インターフェース
type TransactionManager interface {
	// WithTransaction トランザクション内で関数を実行
	// fnに渡されるctxにはトランザクションが紐付いており、リポジトリはこのctxを使うこと
	// fnがエラーを返した場合、全ての変更は破棄される
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
