package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pack-vault/internal/domain/transaction"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

// releaseScript 自分が置いたトークンの場合のみキーを削除する
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// redisClient RedisGuardが使うコマンド
type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisGuard 複数インスタンス間で共有する再入ガード
// ttl はプロセスが解放前に停止した場合の保険として付与する
type RedisGuard struct {
	client redisClient
	key    string
	ttl    time.Duration
	logger *otelinfra.Logger
}

// NewRedisGuard 新しいRedisGuardを作成
func NewRedisGuard(client redisClient, key string, ttl time.Duration, logger *otelinfra.Logger) *RedisGuard {
	return &RedisGuard{
		client: client,
		key:    key,
		ttl:    ttl,
		logger: logger,
	}
}

// TryAcquire ガードを取得。他で保持中であれば待たずにErrReentrantCallを返す
func (g *RedisGuard) TryAcquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()

	ok, err := g.client.SetNX(ctx, g.key, token, g.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", transaction.ErrGuardUnavailable, err)
	}
	if !ok {
		return nil, transaction.ErrReentrantCall
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// 呼び出し元のctxがキャンセルされていても解放する
			releaseCtx := context.WithoutCancel(ctx)
			if err := g.client.Eval(releaseCtx, releaseScript, []string{g.key}, token).Err(); err != nil {
				g.logger.Error(releaseCtx, "Failed to release guard", err, map[string]interface{}{
					"key": g.key,
				})
			}
		})
	}, nil
}
