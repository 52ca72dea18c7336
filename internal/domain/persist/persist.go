// Package persist moves store state in and out of a KeyValueStore as JSON.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/infrastructure/store"
)

// Load decodes the value stored under key into v.
// Returns false with a nil error when nothing is stored. A value that cannot be
// decoded is reported as *apperrors.StorageParseError and v is left untouched.
func Load(ctx context.Context, kv store.KeyValueStore, key string, v any) (bool, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}

	if err := decodeInto(raw, v); err != nil {
		return false, &apperrors.StorageParseError{Key: key, Err: err}
	}
	return true, nil
}

// Save encodes v as JSON and writes it under key.
func Save(ctx context.Context, kv store.KeyValueStore, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %q: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// decodeInto unmarshals into a fresh value first so a partial decode never
// leaks into v.
func decodeInto(raw []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer, got %T", v)
	}

	fresh := reflect.New(rv.Elem().Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(fresh.Elem())
	return nil
}
