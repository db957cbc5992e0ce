package mysql

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionManager_WithTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tm := NewTransactionManager(&DB{DB: db})

	tests := []struct {
		name      string
		fn        func(ctx context.Context) error
		setupMock func()
		wantError bool
	}{
		{
			name: "正常系: トランザクション成功",
			fn: func(ctx context.Context) error {
				_, ok := ctx.Value(txKey{}).(*sql.Tx)
				if !ok {
					return errors.New("transaction not bound to context")
				}
				return nil
			},
			setupMock: func() {
				mock.ExpectBegin()
				mock.ExpectCommit()
			},
			wantError: false,
		},
		{
			name: "正常系: トランザクションロールバック（エラー発生）",
			fn: func(ctx context.Context) error {
				return errors.New("test error")
			},
			setupMock: func() {
				mock.ExpectBegin()
				mock.ExpectRollback()
			},
			wantError: true,
		},
		{
			name: "異常系: Beginエラー",
			fn: func(ctx context.Context) error {
				return nil
			},
			setupMock: func() {
				mock.ExpectBegin().WillReturnError(errors.New("begin error"))
			},
			wantError: true,
		},
		{
			name: "異常系: Commitエラーを返す",
			fn: func(ctx context.Context) error {
				return nil
			},
			setupMock: func() {
				mock.ExpectBegin()
				mock.ExpectCommit().WillReturnError(errors.New("commit error"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := tm.WithTransaction(context.Background(), tt.fn)

			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTransactionManager_WithTransaction_Panic(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tm := NewTransactionManager(&DB{DB: db})

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.PanicsWithValue(t, "test panic", func() {
		_ = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
			panic("test panic")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionManager_WithTransaction_Nested(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tm := NewTransactionManager(&DB{DB: db})

	// 内側の呼び出しは外側のトランザクションに参加する
	mock.ExpectBegin()
	mock.ExpectRollback()

	inner := errors.New("inner failed")
	err = tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return tm.WithTransaction(ctx, func(ctx context.Context) error {
			return inner
		})
	})

	assert.ErrorIs(t, err, inner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
