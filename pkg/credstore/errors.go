package credstore

import "errors"

var (
	// ErrKeyNotFound indicates the requested key has no stored value
	ErrKeyNotFound = errors.New("credstore.key_not_found")

	// ErrEmptyKey indicates an empty key was passed to a store operation
	ErrEmptyKey = errors.New("credstore.empty_key")

	// ErrStorageUnavailable indicates the backing storage could not be read or written
	ErrStorageUnavailable = errors.New("credstore.storage_unavailable")
)
