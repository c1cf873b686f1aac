package ports

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key or a remote record does not exist.
var ErrNotFound = errors.New("not found")

// KeyValueStore defines the durable storage used to persist the session
// across process restarts.
type KeyValueStore interface {
	// Get returns the value stored under key.
	// Returns ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
