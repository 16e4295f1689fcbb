package notifcache

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/dmitrymomot/authkit/pkg/credstore"
)

// storageName is the per-user key suffix the list is cached under
const storageName = "notifications"

// defaultLimit caps how many notifications a user's cache retains
const defaultLimit = 50

var (
	// ErrEmptyUserID indicates a cache operation without a user ID
	ErrEmptyUserID = errors.New("notifcache.empty_user_id")

	// ErrCorruptCache indicates the cached payload could not be decoded
	ErrCorruptCache = errors.New("notifcache.corrupt_cache")
)

// Cache persists per-user notification lists in durable client storage.
type Cache struct {
	store credstore.Store
	limit int
}

// Option configures the cache
type Option func(*Cache)

// WithLimit sets how many notifications are retained per user.
func WithLimit(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.limit = n
		}
	}
}

// New creates a notification cache over the given store.
func New(store credstore.Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		limit: defaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the cached notifications for userID, newest first. An absent
// cache reads as an empty list.
func (c *Cache) List(ctx context.Context, userID string) ([]Notification, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	raw, err := c.store.Get(ctx, c.key(userID))
	if err != nil {
		if errors.Is(err, credstore.ErrKeyNotFound) {
			return []Notification{}, nil
		}
		return nil, err
	}

	var list []Notification
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, errors.Join(ErrCorruptCache, err)
	}
	return list, nil
}

// Append adds a notification to the front of the user's cache, dropping the
// oldest entries past the retention limit.
func (c *Cache) Append(ctx context.Context, userID string, notif Notification) error {
	list, err := c.List(ctx, userID)
	if err != nil {
		return err
	}

	list = append([]Notification{notif}, list...)
	if len(list) > c.limit {
		list = list[:c.limit]
	}
	return c.save(ctx, userID, list)
}

// Replace overwrites the user's cache with the given list, applying the
// retention limit. Used after a fresh fetch from the server.
func (c *Cache) Replace(ctx context.Context, userID string, list []Notification) error {
	if len(list) > c.limit {
		list = slices.Clone(list[:c.limit])
	}
	return c.save(ctx, userID, list)
}

// MarkRead marks the given notification IDs as read.
func (c *Cache) MarkRead(ctx context.Context, userID string, ids ...string) error {
	list, err := c.List(ctx, userID)
	if err != nil {
		return err
	}

	for i := range list {
		if !list[i].Read && slices.Contains(ids, list[i].ID) {
			list[i].MarkAsRead()
		}
	}
	return c.save(ctx, userID, list)
}

// CountUnread returns the number of unread cached notifications.
func (c *Cache) CountUnread(ctx context.Context, userID string) (int, error) {
	list, err := c.List(ctx, userID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, n := range list {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// Clear removes the user's cached list entirely.
func (c *Cache) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}
	return c.store.Delete(ctx, c.key(userID))
}

func (c *Cache) key(userID string) string {
	return credstore.UserScopedKey(userID, storageName)
}

func (c *Cache) save(ctx context.Context, userID string, list []Notification) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.key(userID), string(data))
}
