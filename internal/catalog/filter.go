package catalog

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CategoryAll selects every product.
const CategoryAll = "todos"

type SortOrder string

const (
	SortRelevance SortOrder = "destacados"
	SortPriceAsc  SortOrder = "precio-asc"
	SortPriceDesc SortOrder = "precio-desc"
	SortName      SortOrder = "nombre"
)

// ParseSortOrder returns the order for id, or SortRelevance when unknown.
func ParseSortOrder(id string) SortOrder {
	switch o := SortOrder(id); o {
	case SortPriceAsc, SortPriceDesc, SortName:
		return o
	}
	return SortRelevance
}

// Query is the set of filters applied to the product list.
type Query struct {
	Category string
	Search   string
	Sort     SortOrder
}

// CategoryOption is a category the products page offers as a filter.
type CategoryOption struct {
	ID     string
	Nombre string
}

// DefaultCategories are the filter options shown on the products page.
var DefaultCategories = []CategoryOption{
	{ID: CategoryAll, Nombre: "Todo el Menú"},
	{ID: "Carnes", Nombre: "Carnes"},
	{ID: "Lacteos", Nombre: "Lácteos"},
	{ID: "Panadería", Nombre: "Panadería"},
	{ID: "Bebidas", Nombre: "Bebidas"},
	{ID: "Dulces", Nombre: "Dulces"},
}

// fold case-folds s. Casers hold state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// NormalizeCategory strips diacritics and case-folds s, so "Lácteos" and
// "LACTEOS" compare equal.
func NormalizeCategory(s string) string {
	// NFD splits accented letters so the combining marks can be dropped.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return fold(stripped)
}

func isAll(category string) bool {
	return category == "" || category == CategoryAll
}

// MatchesCategory reports whether the product's category contains category,
// ignoring accents and case.
func MatchesCategory(p Product, category string) bool {
	if isAll(category) {
		return true
	}
	return strings.Contains(NormalizeCategory(p.Categoria), NormalizeCategory(category))
}

// MatchesSearch reports whether term occurs in the name or the description,
// ignoring case. An empty term matches everything.
func MatchesSearch(p Product, term string) bool {
	if term == "" {
		return true
	}
	t := fold(term)
	return strings.Contains(fold(p.Nombre), t) ||
		strings.Contains(fold(p.Descripcion), t)
}

// Apply filters products by q.Category and q.Search, then sorts by q.Sort.
// The input slice is not modified.
func Apply(products []Product, q Query) []Product {
	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if MatchesCategory(p, q.Category) && MatchesSearch(p, q.Search) {
			filtered = append(filtered, p)
		}
	}
	return Sort(filtered, q.Sort)
}

// Sort returns a sorted copy of products. Ties keep their input order.
func Sort(products []Product, order SortOrder) []Product {
	out := make([]Product, len(products))
	copy(out, products)

	switch order {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Precio < out[j].Precio })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Precio > out[j].Precio })
	case SortName:
		// Collators keep internal buffers; one per call.
		c := collate.New(language.Spanish)
		sort.SliceStable(out, func(i, j int) bool {
			return c.CompareString(out[i].Nombre, out[j].Nombre) < 0
		})
	}
	return out
}

// CategoryCount is the number of products under one filter option.
type CategoryCount struct {
	CategoryOption
	Count int
}

// CategoryCounts counts products per option over the whole list. The "all"
// option counts every product.
func CategoryCounts(products []Product, options []CategoryOption) []CategoryCount {
	out := make([]CategoryCount, 0, len(options))
	for _, opt := range options {
		n := 0
		if isAll(opt.ID) {
			n = len(products)
		} else {
			for _, p := range products {
				if MatchesCategory(p, opt.ID) {
					n++
				}
			}
		}
		out = append(out, CategoryCount{CategoryOption: opt, Count: n})
	}
	return out
}
