package notifcache_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authkit/pkg/credstore"
	"github.com/dmitrymomot/authkit/pkg/notifcache"
)

func notif(id string) notifcache.Notification {
	return notifcache.Notification{
		ID:        id,
		Type:      notifcache.TypeInfo,
		Title:     "Title " + id,
		Message:   "Message " + id,
		CreatedAt: time.Now(),
	}
}

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("absent cache reads as empty list", func(t *testing.T) {
		cache := notifcache.New(credstore.NewMemoryStore())

		list, err := cache.List(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("append keeps newest first", func(t *testing.T) {
		cache := notifcache.New(credstore.NewMemoryStore())

		require.NoError(t, cache.Append(ctx, "u1", notif("a")))
		require.NoError(t, cache.Append(ctx, "u1", notif("b")))

		list, err := cache.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "b", list[0].ID)
		assert.Equal(t, "a", list[1].ID)
	})

	t.Run("retention limit drops oldest", func(t *testing.T) {
		cache := notifcache.New(credstore.NewMemoryStore(), notifcache.WithLimit(3))

		for i := 0; i < 5; i++ {
			require.NoError(t, cache.Append(ctx, "u1", notif(fmt.Sprintf("n%d", i))))
		}

		list, err := cache.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "n4", list[0].ID)
		assert.Equal(t, "n2", list[2].ID)
	})

	t.Run("mark read and count unread", func(t *testing.T) {
		cache := notifcache.New(credstore.NewMemoryStore())

		require.NoError(t, cache.Append(ctx, "u1", notif("a")))
		require.NoError(t, cache.Append(ctx, "u1", notif("b")))

		count, err := cache.CountUnread(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		require.NoError(t, cache.MarkRead(ctx, "u1", "a"))

		count, err = cache.CountUnread(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		list, err := cache.List(ctx, "u1")
		require.NoError(t, err)
		for _, n := range list {
			if n.ID == "a" {
				assert.True(t, n.Read)
				assert.NotNil(t, n.ReadAt)
			}
		}
	})

	t.Run("users are isolated", func(t *testing.T) {
		cache := notifcache.New(credstore.NewMemoryStore())

		require.NoError(t, cache.Append(ctx, "u1", notif("mine")))

		list, err := cache.List(ctx, "u2")
		require.NoError(t, err)
		assert.Empty(t, list, "one account's cache must never leak into another")
	})

	t.Run("clear removes the list", func(t *testing.T) {
		cache := notifcache.New(credstore.NewMemoryStore())

		require.NoError(t, cache.Append(ctx, "u1", notif("a")))
		require.NoError(t, cache.Clear(ctx, "u1"))

		list, err := cache.List(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("replace applies the limit", func(t *testing.T) {
		cache := notifcache.New(credstore.NewMemoryStore(), notifcache.WithLimit(2))

		require.NoError(t, cache.Replace(ctx, "u1", []notifcache.Notification{
			notif("a"), notif("b"), notif("c"),
		}))

		list, err := cache.List(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("empty user id rejected", func(t *testing.T) {
		cache := notifcache.New(credstore.NewMemoryStore())

		_, err := cache.List(ctx, "")
		assert.ErrorIs(t, err, notifcache.ErrEmptyUserID)
		assert.ErrorIs(t, cache.Append(ctx, "", notif("a")), notifcache.ErrEmptyUserID)
		assert.ErrorIs(t, cache.Clear(ctx, ""), notifcache.ErrEmptyUserID)
	})

	t.Run("corrupt payload surfaces a typed error", func(t *testing.T) {
		store := credstore.NewMemoryStore()
		require.NoError(t, store.Set(ctx, credstore.UserScopedKey("u1", "notifications"), "{not json"))

		cache := notifcache.New(store)
		_, err := cache.List(ctx, "u1")
		assert.ErrorIs(t, err, notifcache.ErrCorruptCache)
	})
}
