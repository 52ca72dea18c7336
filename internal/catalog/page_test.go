package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/fetch"
)

const pageProducts = `[
	{"id":1,"nombre":"Chicharrón Crocante","descripcion":"100% natural y crocante.","precio":18000,"categoria_nombre":"Carnes"},
	{"id":2,"nombre":"Café Premium","descripcion":"Tostión media, sabor intenso.","precio":22000,"categoria_nombre":"Bebidas"},
	{"id":3,"nombre":"Queso Campesino","descripcion":"Fresco y suave.","precio":14000,"categoria":"lacteos"}
]`

func TestPage_LoadAndFilter(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{PathProducts: pageProducts})
	page := NewPage(c)
	assert.Equal(t, fetch.StatusIdle, page.Status())

	require.NoError(t, page.Load(context.Background()))
	assert.Equal(t, fetch.StatusReady, page.Status())
	assert.Equal(t, []int64{1, 2, 3}, ids(page.Visible()))

	page.SetCategory("Lácteos")
	assert.Equal(t, []int64{3}, ids(page.Visible()))

	page.SetCategory("")
	page.SetSort(SortPriceDesc)
	assert.Equal(t, []int64{2, 1, 3}, ids(page.Visible()))

	page.SetSearch("SABOR")
	assert.Equal(t, []int64{2}, ids(page.Visible()))
	assert.Equal(t, Query{Category: CategoryAll, Search: "SABOR", Sort: SortPriceDesc}, page.Query())
}

func TestPage_CountsIgnoreQuery(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{PathProducts: pageProducts})
	page := NewPage(c)
	require.NoError(t, page.Load(context.Background()))

	page.SetSearch("nada coincide")
	counts := page.Counts()

	assert.Empty(t, page.Visible())
	require.NotEmpty(t, counts)
	assert.Equal(t, CategoryAll, counts[0].ID)
	assert.Equal(t, 3, counts[0].Count)
}

func TestPage_LoadFailureIsExplicit(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{})
	page := NewPage(c)

	err := page.Load(context.Background())

	assert.ErrorIs(t, err, apperrors.ErrNetwork)
	assert.Equal(t, fetch.StatusError, page.Status())
	assert.ErrorIs(t, page.Err(), apperrors.ErrNetwork)
	assert.Empty(t, page.Products(), "no sample data is substituted")
}

// gatedGetter serves bodies in order; a call whose gate is non-nil waits for
// the gate to close first.
type gatedGetter struct {
	mu      sync.Mutex
	calls   int
	bodies  []string
	gates   []chan struct{}
	started chan struct{}
}

func (g *gatedGetter) GetJSON(_ context.Context, _ string, _ url.Values, out any) error {
	g.mu.Lock()
	i := g.calls
	g.calls++
	g.mu.Unlock()

	if gate := g.gates[i]; gate != nil {
		g.started <- struct{}{}
		<-gate
	}
	if g.bodies[i] == "" {
		return errors.New("backend down")
	}
	return json.Unmarshal([]byte(g.bodies[i]), out)
}

func TestPage_CountsFollowReloadInFlight(t *testing.T) {
	gate := make(chan struct{})
	api := &gatedGetter{
		bodies:  []string{`[{"id":1,"nombre":"Café","precio":1,"categoria_nombre":"Bebidas"}]`, pageProducts},
		gates:   []chan struct{}{nil, gate},
		started: make(chan struct{}, 1),
	}
	page := NewPage(NewClient(api, nil))
	require.NoError(t, page.Load(context.Background()))
	assert.Equal(t, 1, page.Counts()[0].Count)

	done := make(chan error, 1)
	go func() { done <- page.Load(context.Background()) }()
	<-api.started

	assert.Equal(t, fetch.StatusLoading, page.Status())
	assert.Equal(t, 1, page.Counts()[0].Count, "counts still describe the loaded list")

	close(gate)
	require.NoError(t, <-done)

	require.Len(t, page.Products(), 3)
	assert.Equal(t, 3, page.Counts()[0].Count)
}

func TestPage_CountsResetAfterFailedReload(t *testing.T) {
	api := &gatedGetter{
		bodies: []string{pageProducts, ""},
		gates:  []chan struct{}{nil, nil},
	}
	page := NewPage(NewClient(api, nil))
	require.NoError(t, page.Load(context.Background()))
	assert.Equal(t, 3, page.Counts()[0].Count)

	assert.Error(t, page.Load(context.Background()))

	assert.Empty(t, page.Products())
	assert.Zero(t, page.Counts()[0].Count)
}
