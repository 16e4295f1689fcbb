package credstore

import (
	"context"
	"fmt"
)

// TokenKey is the well-known key holding the persisted bearer credential.
// Absent means the client relies solely on cookie-based session credentials.
const TokenKey = "auth_token"

// Store defines the interface for durable client-side key/value persistence
type Store interface {
	// Get retrieves the value for key, or ErrKeyNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, overwriting any previous value
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error
}

// UserScopedKey builds a per-user storage key so cached data from one account
// is never visible to another account using the same store.
func UserScopedKey(userID, name string) string {
	return fmt.Sprintf("user:%s:%s", userID, name)
}
