package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/infrastructure/backend"
)

// fakeAPI serves canned bodies per path under /api and records queries.
type fakeAPI struct {
	mu      sync.Mutex
	bodies  map[string]string
	queries map[string]string
}

func newFakeAPI(t *testing.T, bodies map[string]string) (*fakeAPI, *Client) {
	t.Helper()
	f := &fakeAPI{bodies: bodies, queries: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, NewClient(backend.NewClient(srv.URL+"/api", 5*time.Second), nil)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := r.URL.Path[len("/api"):]
	f.queries[path] = r.URL.RawQuery
	body, ok := f.bodies[path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (f *fakeAPI) query(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[path]
}

func TestClient_ListProducts_BareArray(t *testing.T) {
	f, c := newFakeAPI(t, map[string]string{
		PathProducts: `[{"id":1,"nombre":"Chicharrón Crocante","precio":"18000.00","categoria":1,"categoria_nombre":"Carnes"}]`,
	})

	products, err := c.ListProducts(context.Background(), Filters{Categoria: CategoryAll})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 18000.0, products[0].Precio)
	assert.Equal(t, "Carnes", products[0].Categoria)
	assert.Empty(t, f.query(PathProducts), "todos is never sent")
}

func TestClient_ListProducts_ResultsWrapper(t *testing.T) {
	f, c := newFakeAPI(t, map[string]string{
		PathProducts: `{"count":2,"next":null,"results":[{"id":1,"nombre":"A","precio":1},{"id":2,"nombre":"B","precio":2}]}`,
	})

	products, err := c.ListProducts(context.Background(), Filters{Categoria: "Bebidas", Search: "café"})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids(products))
	assert.Equal(t, "categoria=Bebidas&search=caf%C3%A9", f.query(PathProducts))
}

func TestClient_ListProducts_HTTPError(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{})

	products, err := c.ListProducts(context.Background(), Filters{})

	assert.Nil(t, products)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestClient_Featured(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{
		PathFeatured: `[{"id":2,"nombre":"Café Premium","precio":22000,"destacado":true}]`,
	})

	products, err := c.Featured(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].Destacado)
}

func TestClient_Categories(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{
		PathCategories: `[{"id":1,"nombre":"Carnes"},{"id":2,"nombre":"Lácteos"}]`,
	})

	categories, err := c.Categories(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []Category{{ID: 1, Nombre: "Carnes"}, {ID: 2, Nombre: "Lácteos"}}, categories)
}

func TestClient_Product(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{
		"/productos/5/": `{"id":5,"nombre":"Almojábana","precio":"3500.00","categoria":3}`,
	})

	p, err := c.Product(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Almojábana", p.Nombre)
	assert.Equal(t, "Panadería", p.Categoria)

	_, err = c.Product(context.Background(), 6)
	assert.ErrorIs(t, err, apperrors.ErrNetwork)
}

func TestClient_Banners(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{
		PathBanners: `{"results":[{"id":1,"titulo":"Sabor de casa","tag":"NUEVO","enlace":"/productos","activo":true}]}`,
	})

	banners, err := c.Banners(context.Background())

	require.NoError(t, err)
	require.Len(t, banners, 1)
	assert.Equal(t, "Sabor de casa", banners[0].Titulo)
}

func TestClient_Banners_WrapperWithoutResults(t *testing.T) {
	_, c := newFakeAPI(t, map[string]string{PathBanners: `{"detail":"vacío"}`})

	banners, err := c.Banners(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, banners)
	assert.Empty(t, banners)
}
