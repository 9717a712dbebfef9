// Package store defines the key/value persistence used to carry a schema
// snapshot from one session to the next.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load and Delete when the key holds no value.
var ErrNotFound = errors.New("not found")

// DefaultKey is the well-known key under which the last imported schema
// document is kept.
const DefaultKey = "QRScoutUserConfig"

// Store persists serialized snapshots. Implementations never hold live
// configs, only the text they were given.
type Store interface {
	// Save stores value under key, replacing any previous value.
	Save(ctx context.Context, key, value string) error
	// Load returns the value stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) (string, error)
	// Delete removes key, or returns ErrNotFound.
	Delete(ctx context.Context, key string) error

	// Lifecycle
	Close() error
}
