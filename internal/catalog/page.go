package catalog

import (
	"context"
	"sync"

	"github.com/example/delicias-storefront/internal/fetch"
)

// Page is the state behind the products page: the loaded list, the active
// query and the category counts derived from the list.
type Page struct {
	client   *Client
	products *fetch.Loader[[]Product]
	options  []CategoryOption

	mu          sync.Mutex
	query       Query
	counts      []CategoryCount
	countedVer  uint64
	countsValid bool
}

func NewPage(client *Client) *Page {
	return &Page{
		client:   client,
		products: fetch.NewLoader[[]Product](),
		options:  DefaultCategories,
		query:    Query{Category: CategoryAll, Sort: SortRelevance},
	}
}

// Load fetches the full product list. Filtering happens locally, so the
// query is not sent to the server.
func (p *Page) Load(ctx context.Context) error {
	_, err := p.products.Load(ctx, func(ctx context.Context) ([]Product, error) {
		return p.client.ListProducts(ctx, Filters{})
	})
	return err
}

func (p *Page) Status() fetch.Status {
	return p.products.Status()
}

func (p *Page) Err() error {
	return p.products.Err()
}

func (p *Page) Products() []Product {
	return p.products.Value()
}

func (p *Page) Query() Query {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

func (p *Page) SetCategory(category string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if category == "" {
		category = CategoryAll
	}
	p.query.Category = category
}

func (p *Page) SetSearch(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Search = term
}

func (p *Page) SetSort(order SortOrder) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query.Sort = order
}

// Visible is the loaded list with the current query applied.
func (p *Page) Visible() []Product {
	q := p.Query()
	return Apply(p.products.Value(), q)
}

// Counts returns the per-category counts over the unfiltered list. They are
// recomputed whenever a load lands, successful or not.
func (p *Page) Counts() []CategoryCount {
	snap := p.products.Snapshot()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.countsValid || p.countedVer != snap.Version {
		p.counts = CategoryCounts(snap.Value, p.options)
		p.countedVer = snap.Version
		p.countsValid = true
	}
	out := make([]CategoryCount, len(p.counts))
	copy(out, p.counts)
	return out
}
