package transaction

import (
	"fmt"

	"pack-vault/internal/domain/errkind"
)

var (
	// ErrReentrantCall 保護区間の実行中に再度呼び出された
	ErrReentrantCall = fmt.Errorf("%w: reentrant call", errkind.ErrState)
	// ErrGuardUnavailable ガードの取得自体に失敗
	ErrGuardUnavailable = fmt.Errorf("%w: guard unavailable", errkind.ErrInternalInvariant)
)
