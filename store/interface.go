// Package store provides the key/value persistence capability behind the
// analysis history. Each backend stores opaque snapshots under string keys.
package store

import (
	"context"
	"errors"
)

// ErrCorrupt is returned by Get when a stored snapshot fails its integrity check.
var ErrCorrupt = errors.New("stored value is corrupt")

// KV is a minimal snapshot store.
type KV interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// Watcher is implemented by backends that can report external changes to a key.
type Watcher interface {
	// Watch calls onChange whenever the value under key changes on the
	// backing medium, until ctx is done.
	Watch(ctx context.Context, key string, onChange func()) error
}
