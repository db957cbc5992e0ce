package receipt

import (
	"context"
)

// ShareRepository 受領シェアリポジトリインターフェース
type ShareRepository interface {
	// FindHolding 保有残高を取得（未保有の場合は残高0のHoldingを返す）
	FindHolding(ctx context.Context, packID int64, holder string) (*Holding, error)

	// SaveHolding 保有残高を保存
	SaveHolding(ctx context.Context, h *Holding) error

	// TotalSupply 流通中のシェア数を取得（パックが無い場合は0）
	TotalSupply(ctx context.Context, packID int64) (int64, error)

	// InitSupply パック作成時に流通量を設定
	InitSupply(ctx context.Context, packID int64, supply int64) error

	// DecreaseSupply 焼却に伴い流通量を減らす
	DecreaseSupply(ctx context.Context, packID int64, amount int64) error
}
