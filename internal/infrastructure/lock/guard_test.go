package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"pack-vault/internal/domain/transaction"
	otelinfra "pack-vault/internal/infrastructure/observability/otel"
)

func TestLocalGuard_TryAcquire(t *testing.T) {
	g := NewLocalGuard()
	ctx := context.Background()

	release, err := g.TryAcquire(ctx)
	require.NoError(t, err)
	assert.True(t, g.Held())

	_, err = g.TryAcquire(ctx)
	assert.ErrorIs(t, err, transaction.ErrReentrantCall)

	release()
	release()
	assert.False(t, g.Held())

	release, err = g.TryAcquire(ctx)
	require.NoError(t, err)
	release()
}

func TestLocalGuard_Concurrent(t *testing.T) {
	g := NewLocalGuard()

	var (
		wg       sync.WaitGroup
		acquired atomic.Int32
		start    = make(chan struct{})
		hold     = make(chan struct{})
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			release, err := g.TryAcquire(context.Background())
			if err != nil {
				return
			}
			acquired.Add(1)
			<-hold
			release()
		}()
	}
	close(start)
	time.Sleep(50 * time.Millisecond)
	close(hold)
	wg.Wait()

	assert.Equal(t, int32(1), acquired.Load())
	assert.False(t, g.Held())
}

// fakeRedis SetNX/Evalだけを持つ最小限のRedis
type fakeRedis struct {
	mu       sync.Mutex
	values   map[string]interface{}
	setErr   error
	released []string
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: make(map[string]interface{})}
}

func (f *fakeRedis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}
	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}
	f.values[key] = value
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values[keys[0]] == args[0] {
		delete(f.values, keys[0])
		f.released = append(f.released, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisGuard_TryAcquire(t *testing.T) {
	logger := otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test"))

	tests := []struct {
		name      string
		setup     func(f *fakeRedis)
		wantError error
	}{
		{
			name:  "正常系: ガードを取得",
			setup: func(f *fakeRedis) {},
		},
		{
			name: "異常系: 他で保持中",
			setup: func(f *fakeRedis) {
				f.values["guard"] = "other-token"
			},
			wantError: transaction.ErrReentrantCall,
		},
		{
			name: "異常系: Redisに接続できない",
			setup: func(f *fakeRedis) {
				f.setErr = errors.New("connection refused")
			},
			wantError: transaction.ErrGuardUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeRedis()
			tt.setup(f)
			g := NewRedisGuard(f, "guard", time.Minute, logger)

			release, err := g.TryAcquire(context.Background())
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, release)
				return
			}
			require.NoError(t, err)

			_, err = g.TryAcquire(context.Background())
			assert.ErrorIs(t, err, transaction.ErrReentrantCall)

			release()
			release()
			assert.Equal(t, []string{"guard"}, f.released)
			assert.Empty(t, f.values)
		})
	}
}

func TestRedisGuard_ReleaseKeepsForeignToken(t *testing.T) {
	logger := otelinfra.NewLogger(noop.NewTracerProvider().Tracer("test"))
	f := newFakeRedis()
	g := NewRedisGuard(f, "guard", time.Minute, logger)

	release, err := g.TryAcquire(context.Background())
	require.NoError(t, err)

	// TTL切れ後に別インスタンスが取得した状態
	f.values["guard"] = "other-token"
	release()

	assert.Equal(t, "other-token", f.values["guard"])
	assert.Empty(t, f.released)
}

func TestGuarded_WithLocalGuard(t *testing.T) {
	g := NewLocalGuard()

	err := transaction.Guarded(context.Background(), g, func(ctx context.Context) error {
		return transaction.Guarded(ctx, g, func(ctx context.Context) error {
			return nil
		})
	})

	assert.ErrorIs(t, err, transaction.ErrReentrantCall)
	assert.False(t, g.Held())
}
