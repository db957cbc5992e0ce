package mysql

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/pack"
)

func newTestPackRepository(t *testing.T) (*PackRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &PackRepository{
		db:     &DB{DB: db},
		tracer: otel.Tracer("test"),
	}, mock
}

func testPack(t *testing.T) *pack.Pack {
	t.Helper()
	p, err := pack.NewPack(7, "ipfs://pack/7", 1000, 1, []*asset.RewardEntry{
		asset.MustNewRewardEntry("gold", asset.UnitKindFungibleCurrency, "", 100, 10),
		asset.MustNewRewardEntry("heroes", asset.UnitKindUniqueItem, "42", 1, 1),
	}, "creator")
	require.NoError(t, err)
	return p
}

func TestPackRepository_NextID(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      int64
		wantError bool
	}{
		{
			name: "正常系: 最大値+1",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(id), 0) + 1 FROM packs`)).
					WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(int64(8)))
			},
			want: 8,
		},
		{
			name: "異常系: DBエラー",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`FROM packs`).WillReturnError(sql.ErrConnDone)
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestPackRepository(t)
			tt.setupMock(mock)

			got, err := repo.NextID(context.Background())
			if tt.wantError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPackRepository_NextID_LocksInsideTransaction(t *testing.T) {
	repo, mock := newTestPackRepository(t)
	tm := NewTransactionManager(repo.db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM packs FOR UPDATE`)).
		WillReturnRows(sqlmock.NewRows([]string{"next"}).AddRow(int64(1)))
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		id, err := repo.NextID(ctx)
		assert.Equal(t, int64(1), id)
		return err
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackRepository_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantError bool
	}{
		{
			name: "正常系: パックと在庫を保存",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO packs`).
					WithArgs(int64(7), "ipfs://pack/7", int64(1000), int64(1), "creator", sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(7, 1))
				mock.ExpectExec(`INSERT INTO pack_contents`).
					WithArgs(int64(7), 0, "gold", "fungible_currency", "", int64(100), int64(10)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectExec(`INSERT INTO pack_contents`).
					WithArgs(int64(7), 1, "heroes", "unique_item", "42", int64(1), int64(1)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "異常系: 在庫の保存に失敗",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO packs`).WillReturnResult(sqlmock.NewResult(7, 1))
				mock.ExpectExec(`INSERT INTO pack_contents`).WillReturnError(errors.New("disk full"))
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestPackRepository(t)
			tt.setupMock(mock)

			err := repo.Create(context.Background(), testPack(t))
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPackRepository_FindByID(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantError error
		wantAny   bool
	}{
		{
			name: "正常系: 在庫を順序通りに復元",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, uri, open_eligible_at`).
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "uri", "open_eligible_at", "reward_units_per_open", "creator", "created_at"}).
						AddRow(int64(7), "ipfs://pack/7", int64(1000), int64(1), "creator", createdAt))
				mock.ExpectQuery(`FROM pack_contents`).
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"source", "unit_kind", "item_id", "total_amount", "per_unit_amount"}).
						AddRow("gold", "fungible_currency", "", int64(40), int64(10)).
						AddRow("heroes", "unique_item", "42", int64(0), int64(1)))
			},
		},
		{
			name: "異常系: パックが見つからない",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, uri, open_eligible_at`).
					WithArgs(int64(7)).
					WillReturnError(sql.ErrNoRows)
			},
			wantError: pack.ErrPackNotFound,
		},
		{
			name: "異常系: 在庫の単位種別が不正",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, uri, open_eligible_at`).
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "uri", "open_eligible_at", "reward_units_per_open", "creator", "created_at"}).
						AddRow(int64(7), "", int64(0), int64(1), "creator", createdAt))
				mock.ExpectQuery(`FROM pack_contents`).
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"source", "unit_kind", "item_id", "total_amount", "per_unit_amount"}).
						AddRow("gold", "gem", "", int64(40), int64(10)))
			},
			wantError: asset.ErrInvalidUnitKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestPackRepository(t)
			tt.setupMock(mock)

			got, err := repo.FindByID(context.Background(), 7)
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, int64(7), got.ID())
				assert.Equal(t, "ipfs://pack/7", got.URI())
				assert.Equal(t, createdAt, got.CreatedAt())
				require.Len(t, got.Contents(), 2)
				assert.Equal(t, "gold", got.Contents()[0].Source())
				assert.Equal(t, int64(4), got.Contents()[0].RewardUnits())
				assert.True(t, got.Contents()[1].IsDepleted())
				assert.Equal(t, int64(4), got.TotalRewardUnits())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPackRepository_SaveContents(t *testing.T) {
	repo, mock := newTestPackRepository(t)
	p := testPack(t)
	_, err := p.Contents()[0].TakeUnit()
	require.NoError(t, err)

	mock.ExpectExec(`UPDATE pack_contents`).
		WithArgs(int64(90), int64(7), 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE pack_contents`).
		WithArgs(int64(1), int64(7), 1).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.SaveContents(context.Background(), p))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPackRepository_SetURI(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		wantError error
	}{
		{
			name: "正常系: URIを更新",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE packs SET uri`).
					WithArgs("ipfs://new", int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "正常系: 同じ値での更新",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE packs SET uri`).
					WithArgs("ipfs://new", int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT uri FROM packs`).
					WithArgs(int64(7)).
					WillReturnRows(sqlmock.NewRows([]string{"uri"}).AddRow("ipfs://new"))
			},
		},
		{
			name: "異常系: パックが見つからない",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE packs SET uri`).
					WithArgs("ipfs://new", int64(7)).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT uri FROM packs`).
					WithArgs(int64(7)).
					WillReturnError(sql.ErrNoRows)
			},
			wantError: pack.ErrPackNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestPackRepository(t)
			tt.setupMock(mock)

			err := repo.SetURI(context.Background(), 7, "ipfs://new")
			if tt.wantError != nil {
				assert.ErrorIs(t, err, tt.wantError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
