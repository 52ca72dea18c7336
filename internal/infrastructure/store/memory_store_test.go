package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// Shared contract
// ============================================

func runKeyValueContract(t *testing.T, s KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, KeyCart, []byte(`{"items":[]}`)))
	got, err := s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(got))

	require.NoError(t, s.Set(ctx, KeyCart, []byte(`{"items":[{"id":1}]}`)))
	got, err = s.Get(ctx, KeyCart)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":1}]}`, string(got))

	require.NoError(t, s.Delete(ctx, KeyCart))
	_, err = s.Get(ctx, KeyCart)
	assert.ErrorIs(t, err, ErrNotFound)

	// deleting a missing key is not an error
	assert.NoError(t, s.Delete(ctx, KeyUser))
}

func TestMemoryStore_Contract(t *testing.T) {
	runKeyValueContract(t, NewMemoryStore())
}

func TestFileStore_Contract(t *testing.T) {
	runKeyValueContract(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "state.json")))
}

// ============================================
// MemoryStore
// ============================================

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", value))
	value[0] = 'z'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'z'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryStore_Keys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyCart, []byte("{}")))
	require.NoError(t, s.Set(ctx, KeyUser, []byte("{}")))

	assert.ElementsMatch(t, []string{KeyCart, KeyUser}, s.Keys())
}
