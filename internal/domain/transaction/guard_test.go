package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingGuard struct {
	held     bool
	acquired int
	released int
}

func (g *countingGuard) TryAcquire(ctx context.Context) (func(), error) {
	if g.held {
		return nil, ErrReentrantCall
	}
	g.held = true
	g.acquired++
	return func() {
		g.held = false
		g.released++
	}, nil
}

func TestGuarded(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: 実行後に解放される", func(t *testing.T) {
		g := &countingGuard{}
		err := Guarded(ctx, g, func(ctx context.Context) error { return nil })
		assert.NoError(t, err)
		assert.Equal(t, 1, g.acquired)
		assert.Equal(t, 1, g.released)
	})

	t.Run("異常系: エラー時も解放される", func(t *testing.T) {
		g := &countingGuard{}
		wantErr := errors.New("boom")
		err := Guarded(ctx, g, func(ctx context.Context) error { return wantErr })
		assert.ErrorIs(t, err, wantErr)
		assert.False(t, g.held)
	})

	t.Run("異常系: 再入は拒否される", func(t *testing.T) {
		g := &countingGuard{}
		var inner error
		err := Guarded(ctx, g, func(ctx context.Context) error {
			inner = Guarded(ctx, g, func(ctx context.Context) error { return nil })
			return nil
		})
		assert.NoError(t, err)
		assert.ErrorIs(t, inner, ErrReentrantCall)
		assert.Equal(t, 1, g.acquired)
		assert.False(t, g.held)
	})
}
