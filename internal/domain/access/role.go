package access

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"pack-vault/internal/domain/errkind"
)

var (
	// ErrInvalidRole ロールが無効
	ErrInvalidRole = fmt.Errorf("%w: invalid role", errkind.ErrValidation)
	// ErrInvalidAccount アカウントが無効
	ErrInvalidAccount = fmt.Errorf("%w: invalid account", errkind.ErrValidation)
	// ErrMissingRole 必要なロールを持っていない
	ErrMissingRole = fmt.Errorf("%w: missing role", errkind.ErrAuthorization)
	// ErrAssetNotAllowed 許可されていない資産ソース
	ErrAssetNotAllowed = fmt.Errorf("%w: asset source not allowed", errkind.ErrAuthorization)
	// ErrTransferRestricted シェア転送が制限されている
	ErrTransferRestricted = fmt.Errorf("%w: share transfer restricted", errkind.ErrAuthorization)
	// ErrNotOriginatingCaller 中継・委任された呼び出し
	ErrNotOriginatingCaller = fmt.Errorf("%w: caller is not the originating actor", errkind.ErrAuthorization)
	// ErrPaused 一時停止中
	ErrPaused = fmt.Errorf("%w: paused", errkind.ErrState)
)

// ZeroAccount ゼロアドレス。ロールを付与すると全員に許可したことになる
var ZeroAccount = common.Address{}.Hex()

// Role ロールを表す値オブジェクト
type Role string

const (
	RoleAdmin    Role = "admin"    // 管理者
	RoleMinter   Role = "minter"   // パック作成者
	RoleTransfer Role = "transfer" // シェア転送
	RoleAsset    Role = "asset"    // パックに含められる資産ソース
)

// NewRole 新しいRoleを作成
func NewRole(s string) (Role, error) {
	switch s {
	case "admin", "minter", "transfer", "asset":
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidRole, s)
	}
}

// String 文字列表現を返す
func (r Role) String() string {
	return string(r)
}

// RoleRepository ロールリポジトリインターフェース
type RoleRepository interface {
	HasRole(ctx context.Context, role Role, account string) (bool, error)
	Grant(ctx context.Context, role Role, account string) error
	Revoke(ctx context.Context, role Role, account string) error
}

// PauseState 一時停止状態
type PauseState interface {
	IsPaused(ctx context.Context) (bool, error)
	SetPaused(ctx context.Context, paused bool) error
}
