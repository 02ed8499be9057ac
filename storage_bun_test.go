package tenancy_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	tenancy "github.com/goliatone/go-tenancy"
)

func setupBunStorage(t *testing.T) *tenancy.BunTokenStorage {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, "file::memory:?cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	bunDB := bun.NewDB(db, sqlitedialect.New())

	storage := tenancy.NewBunTokenStorage(bunDB)
	require.NoError(t, storage.Init(context.Background()))
	return storage
}

func TestBunTokenStorage(t *testing.T) {
	ctx := context.Background()

	t.Run("token round trip", func(t *testing.T) {
		storage := setupBunStorage(t)

		token, err := storage.GetToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)

		require.NoError(t, storage.SetToken(ctx, "tok-1"))
		require.NoError(t, storage.SetToken(ctx, "tok-2"))

		token, err = storage.GetToken(ctx)
		require.NoError(t, err)
		assert.Equal(t, "tok-2", token)
	})

	t.Run("selected tenant round trip", func(t *testing.T) {
		storage := setupBunStorage(t)

		_, ok, err := storage.GetSelectedTenant(ctx)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, storage.SetSelectedTenant(ctx, 7))
		require.NoError(t, storage.SetSelectedTenant(ctx, 9))

		id, ok, err := storage.GetSelectedTenant(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, int64(9), id)
	})

	t.Run("clear removes both keys and is idempotent", func(t *testing.T) {
		storage := setupBunStorage(t)

		require.NoError(t, storage.SetToken(ctx, "tok"))
		require.NoError(t, storage.SetSelectedTenant(ctx, 7))

		require.NoError(t, storage.Clear(ctx))
		require.NoError(t, storage.Clear(ctx))

		token, err := storage.GetToken(ctx)
		require.NoError(t, err)
		assert.Empty(t, token)

		_, ok, err := storage.GetSelectedTenant(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("works as session store backend", func(t *testing.T) {
		storage := setupBunStorage(t)
		store := tenancy.NewSessionStore(storage)

		raw := makeToken(t, "user-1", "Admin", time.Now().Add(time.Hour))
		require.NoError(t, store.SetCredential(ctx, raw))

		// Simulate a process restart: a fresh store over the same database.
		restored := tenancy.NewSessionStore(storage)
		require.NoError(t, restored.Restore(ctx))

		cred := restored.Credential()
		require.NotNil(t, cred)
		assert.Equal(t, "user-1", cred.Subject())
	})
}
