package credstore_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/credstore"
)

func TestUserScopedKey(t *testing.T) {
	k1 := credstore.UserScopedKey("user-a", "notifications")
	k2 := credstore.UserScopedKey("user-b", "notifications")

	assert.NotEqual(t, k1, k2, "keys for different users must never collide")
	assert.Contains(t, k1, "user-a")
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := credstore.NewMemoryStore()

	t.Run("get missing key", func(t *testing.T) {
		_, err := store.Get(ctx, credstore.TokenKey)
		assert.ErrorIs(t, err, credstore.ErrKeyNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, credstore.TokenKey, "tok-123"))

		value, err := store.Get(ctx, credstore.TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-123", value)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, credstore.TokenKey, "tok-456"))

		value, err := store.Get(ctx, credstore.TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-456", value)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, credstore.TokenKey))

		_, err := store.Get(ctx, credstore.TokenKey)
		assert.ErrorIs(t, err, credstore.ErrKeyNotFound)
	})

	t.Run("delete absent key is not an error", func(t *testing.T) {
		assert.NoError(t, store.Delete(ctx, "never-set"))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Set(ctx, "", "v"), credstore.ErrEmptyKey)
		_, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, credstore.ErrEmptyKey)
		assert.ErrorIs(t, store.Delete(ctx, ""), credstore.ErrEmptyKey)
	})
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "authkit.json")

	store, err := credstore.NewFileStore(path)
	require.NoError(t, err)

	t.Run("get before first write", func(t *testing.T) {
		_, err := store.Get(ctx, credstore.TokenKey)
		assert.ErrorIs(t, err, credstore.ErrKeyNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, credstore.TokenKey, "tok-789"))

		value, err := store.Get(ctx, credstore.TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-789", value)
	})

	t.Run("survives reopen", func(t *testing.T) {
		reopened, err := credstore.NewFileStore(path)
		require.NoError(t, err)

		value, err := reopened.Get(ctx, credstore.TokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-789", value)
	})

	t.Run("delete persists", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, credstore.TokenKey))

		reopened, err := credstore.NewFileStore(path)
		require.NoError(t, err)

		_, err = reopened.Get(ctx, credstore.TokenKey)
		assert.ErrorIs(t, err, credstore.ErrKeyNotFound)
	})

	t.Run("user scoped values are isolated", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, credstore.UserScopedKey("u1", "notifications"), `["a"]`))
		require.NoError(t, store.Set(ctx, credstore.UserScopedKey("u2", "notifications"), `["b"]`))

		v1, err := store.Get(ctx, credstore.UserScopedKey("u1", "notifications"))
		require.NoError(t, err)
		assert.Equal(t, `["a"]`, v1)
	})
}
