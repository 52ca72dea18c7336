package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/infrastructure/backend"
)

const (
	PathProducts   = "/productos/"
	PathFeatured   = "/productos/destacados/"
	PathCategories = "/productos/categorias/"
	PathBanners    = "/productos/banners/"
)

// Getter is the read side of the backend client.
type Getter interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

var _ Getter = (*backend.Client)(nil)

// Filters narrows ListProducts on the server side.
type Filters struct {
	Categoria string
	Search    string
}

func (f Filters) values() url.Values {
	q := url.Values{}
	if f.Categoria != "" && f.Categoria != CategoryAll {
		q.Set("categoria", f.Categoria)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

type Client struct {
	api    Getter
	logger *zap.Logger
	now    func() time.Time
}

func NewClient(api Getter, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{api: api, logger: logger.Named("catalog"), now: time.Now}
}

// ListProducts fetches and normalizes the product list.
func (c *Client) ListProducts(ctx context.Context, f Filters) ([]Product, error) {
	var page list[Record]
	if err := c.get(ctx, PathProducts, f.values(), &page); err != nil {
		return nil, err
	}
	return NormalizeAll(page, c.now().UnixMilli()), nil
}

// Featured fetches the featured products.
func (c *Client) Featured(ctx context.Context) ([]Product, error) {
	var page list[Record]
	if err := c.get(ctx, PathFeatured, nil, &page); err != nil {
		return nil, err
	}
	return NormalizeAll(page, c.now().UnixMilli()), nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var page list[Category]
	if err := c.get(ctx, PathCategories, nil, &page); err != nil {
		return nil, err
	}
	return page, nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	var r Record
	if err := c.get(ctx, PathProducts+strconv.FormatInt(id, 10)+"/", nil, &r); err != nil {
		return Product{}, err
	}
	return Normalize(r, id), nil
}

func (c *Client) Banners(ctx context.Context) ([]Banner, error) {
	var page list[Banner]
	if err := c.get(ctx, PathBanners, nil, &page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	c.logger.Debug("fetching", zap.String("path", path), zap.String("query", query.Encode()))
	if err := c.api.GetJSON(ctx, path, query, out); err != nil {
		c.logger.Error("fetch failed", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}

// list decodes either a bare JSON array or a paginated {"results": [...]}.
type list[T any] []T

func (l *list[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}

	var page struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	*l = page.Results
	if *l == nil {
		*l = []T{}
	}
	return nil
}
