package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

// Well-known keys for persisted client state.
const (
	KeyCart = "cart"
	KeyUser = "user"
)

// KeyValueStore is the durable local storage the client stores mirror their
// state into. Values are opaque bytes; the stores write JSON.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
