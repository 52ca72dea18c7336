package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_StartsIdle(t *testing.T) {
	l := NewLoader[[]string]()

	assert.Equal(t, StatusIdle, l.Status())
	assert.Nil(t, l.Value())
	assert.NoError(t, l.Err())
}

func TestLoader_Ready(t *testing.T) {
	l := NewLoader[[]string]()

	got, err := l.Load(context.Background(), func(context.Context) ([]string, error) {
		assert.Equal(t, StatusLoading, l.Status())
		return []string{"Café Premium"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Café Premium"}, got)
	assert.Equal(t, StatusReady, l.Status())
	assert.Equal(t, []string{"Café Premium"}, l.Value())
}

func TestLoader_ErrorClearsValue(t *testing.T) {
	l := NewLoader[int]()
	_, _ = l.Load(context.Background(), func(context.Context) (int, error) { return 5, nil })

	boom := errors.New("backend down")
	_, err := l.Load(context.Background(), func(context.Context) (int, error) { return 0, boom })

	assert.ErrorIs(t, err, boom)
	snap := l.Snapshot()
	assert.Equal(t, StatusError, snap.Status)
	assert.Equal(t, 0, snap.Value)
	assert.ErrorIs(t, snap.Err, boom)
}

func TestLoader_DiscardsStaleResponse(t *testing.T) {
	l := NewLoader[string]()
	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, slowErr = l.Load(context.Background(), func(context.Context) (string, error) {
			close(slowStarted)
			<-releaseSlow
			return "old search", nil
		})
	}()

	<-slowStarted
	got, err := l.Load(context.Background(), func(context.Context) (string, error) {
		return "new search", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new search", got)

	close(releaseSlow)
	wg.Wait()

	assert.ErrorIs(t, slowErr, ErrStale)
	assert.Equal(t, "new search", l.Value())
	assert.Equal(t, StatusReady, l.Status())
}

func TestLoader_ResetInvalidatesInFlight(t *testing.T) {
	l := NewLoader[string]()

	_, err := l.Load(context.Background(), func(context.Context) (string, error) {
		l.Reset()
		return "late", nil
	})

	assert.ErrorIs(t, err, ErrStale)
	assert.Equal(t, StatusIdle, l.Status())
	assert.Empty(t, l.Value())
}

func TestLoader_VersionChangesWhenResultLands(t *testing.T) {
	l := NewLoader[int]()
	v0 := l.Snapshot().Version

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = l.Load(context.Background(), func(context.Context) (int, error) {
			close(started)
			<-release
			return 3, nil
		})
	}()

	<-started
	inFlight := l.Snapshot()
	assert.Equal(t, StatusLoading, inFlight.Status)
	assert.Equal(t, v0, inFlight.Version, "starting a load does not change the result")

	close(release)
	<-done
	ready := l.Snapshot().Version
	assert.Greater(t, ready, v0)

	_, _ = l.Load(context.Background(), func(context.Context) (int, error) { return 0, errors.New("down") })
	failed := l.Snapshot().Version
	assert.Greater(t, failed, ready)

	l.Reset()
	assert.Greater(t, l.Snapshot().Version, failed)
}
