package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pack-vault/internal/domain/access"
	"pack-vault/internal/infrastructure/config"
)

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("正常系: メモリドライバー", func(t *testing.T) {
		cfg := &config.Config{Vault: config.VaultConfig{StorageDriver: config.StorageDriverMemory}}
		s, err := openStorage(ctx, cfg)
		require.NoError(t, err)
		assert.NotNil(t, s.packRepo)
		assert.NotNil(t, s.ledger)
		assert.NotNil(t, s.txManager)
		assert.NoError(t, s.close())

		require.NoError(t, bootstrapRoles(ctx, s.roles, []string{"ops"}))
		ok, err := s.roles.HasRole(ctx, access.RoleAdmin, "ops")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("異常系: 未知のドライバー", func(t *testing.T) {
		cfg := &config.Config{Vault: config.VaultConfig{StorageDriver: "sqlite"}}
		_, err := openStorage(ctx, cfg)
		assert.Error(t, err)
	})
}
