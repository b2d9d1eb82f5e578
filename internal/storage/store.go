// Package storage defines the key-value contract the ledger persists through
// and its SQLite implementation.
package storage

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrClosed is returned by stores used after Close.
var ErrClosed = errors.New("store is closed")

// Store is a key-value store holding one JSON value per key.
type Store interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value json.RawMessage, ok bool, err error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	// RemoveMany deletes every key. Missing keys are not an error.
	RemoveMany(ctx context.Context, keys ...string) error
}

// BatchSetter is implemented by stores that can write several keys
// atomically.
type BatchSetter interface {
	SetMany(ctx context.Context, values map[string]json.RawMessage) error
}
