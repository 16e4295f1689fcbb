// Package credstore provides durable client-side key/value storage for the
// auth SDK: the persisted bearer credential and small per-user caches such as
// the notification list.
//
// The package is storage-agnostic: any backend that satisfies the Store
// interface can be plugged in. Two implementations ship out of the box - a
// concurrent in-memory store for tests and short-lived processes, and a
// JSON-file store that survives restarts (the Go analogue of browser
// localStorage).
//
// Keys are plain strings. The bearer credential lives under TokenKey; data
// that belongs to a single account must be namespaced with UserScopedKey so
// it can never leak across accounts sharing the same storage file.
//
// # Usage
//
//	store, err := credstore.NewFileStore(path)
//	if err != nil {
//		// handle error
//	}
//	err = store.Set(ctx, credstore.TokenKey, token)
//	val, err := store.Get(ctx, credstore.UserScopedKey(userID, "notifications"))
//
// Get returns ErrKeyNotFound for absent keys so callers can distinguish
// "no credential yet" from storage failures with errors.Is.
package credstore
