package main

import (
	"context"
	"fmt"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/domain/asset"
	"pack-vault/internal/domain/pack"
	"pack-vault/internal/domain/receipt"
	"pack-vault/internal/domain/transaction"
	"pack-vault/internal/infrastructure/config"
	"pack-vault/internal/infrastructure/persistence/memory"
	"pack-vault/internal/infrastructure/persistence/mysql"
)

// storage 永続化層の実装一式
type storage struct {
	packRepo  pack.PackRepository
	metadata  pack.MetadataStore
	events    pack.EventRepository
	shares    receipt.ShareRepository
	roles     access.RoleRepository
	pause     access.PauseState
	ledger    asset.Ledger
	txManager transaction.TransactionManager
	close     func() error
}

// openStorage 設定されたドライバーで永続化層を構築
func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Vault.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		packRepo := memory.NewPackRepository(store)
		return &storage{
			packRepo:  packRepo,
			metadata:  packRepo,
			events:    memory.NewEventRepository(store),
			shares:    memory.NewShareRepository(store),
			roles:     memory.NewRoleRepository(store),
			pause:     memory.NewPauseState(store),
			ledger:    memory.NewAssetLedger(store),
			txManager: store,
			close:     func() error { return nil },
		}, nil

	case config.StorageDriverMySQL:
		db, err := mysql.NewDB(&cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to ensure schema: %w", err)
		}
		packRepo := mysql.NewPackRepository(db)
		return &storage{
			packRepo:  packRepo,
			metadata:  packRepo,
			events:    mysql.NewEventRepository(db),
			shares:    mysql.NewShareRepository(db),
			roles:     mysql.NewRoleRepository(db),
			pause:     mysql.NewPauseState(db),
			ledger:    mysql.NewAssetLedger(db),
			txManager: mysql.NewTransactionManager(db),
			close:     db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Vault.StorageDriver)
	}
}

// bootstrapRoles 起動時に管理者ロールを付与する
func bootstrapRoles(ctx context.Context, roles access.RoleRepository, admins []string) error {
	for _, account := range admins {
		if err := roles.Grant(ctx, access.RoleAdmin, account); err != nil {
			return fmt.Errorf("failed to grant admin role to %s: %w", account, err)
		}
	}
	return nil
}
