package sandbox

import (
	"strings"

	"github.com/example/delicias-storefront/internal/catalog"
)

// maxFeatured caps the featured products endpoint.
const maxFeatured = 8

// Fixtures is the catalog the sandbox serves.
type Fixtures struct {
	Categories []catalog.Category
	Products   []catalog.Record
	Banners    []catalog.Banner
}

// DefaultFixtures is a small demo catalog of Colombian products.
func DefaultFixtures() Fixtures {
	categories := []catalog.Category{
		{ID: 1, Nombre: "Carnes"},
		{ID: 2, Nombre: "Lácteos"},
		{ID: 3, Nombre: "Panadería"},
		{ID: 4, Nombre: "Bebidas"},
		{ID: 5, Nombre: "Dulces"},
	}
	product := func(id int64, nombre, descripcion string, precio float64, categoria int64, stock int, destacado bool) catalog.Record {
		return catalog.Record{
			ID:              id,
			Nombre:          nombre,
			Descripcion:     descripcion,
			Precio:          catalog.Amount(precio),
			Categoria:       catalog.CategoryRef{ID: categoria},
			CategoriaNombre: categories[categoria-1].Nombre,
			Stock:           stock,
			Destacado:       catalog.Flag(destacado),
		}
	}
	return Fixtures{
		Categories: categories,
		Products: []catalog.Record{
			product(1, "Chicharrón Premium 500g", "Chicharrón de cerdo crocante y dorado perfectamente", 18000, 1, 50, true),
			product(2, "Café Colombiano 500g", "Café premium de altura tostado medio", 22000, 4, 100, true),
			product(3, "Queso Campesino 500g", "Queso fresco campesino tradicional", 14000, 2, 75, false),
			product(4, "Arepas de Maíz x6", "Arepas tradicionales listas para asar", 12500, 3, 200, true),
			product(5, "Arequipe Colombiano 400g", "Dulce de leche cremoso tradicional", 8200, 5, 120, false),
			product(6, "Almojábana", "Recién horneada.", 3500, 3, 80, false),
		},
		Banners: []catalog.Banner{
			{ID: 1, Titulo: "Sabor de casa", Subtitulo: "Productos tradicionales colombianos", Tag: "NUEVO", ColorFondo: "bg-green-600", ColorTexto: "text-white", TextoBoton: "VER MÁS", Enlace: "/productos", Activo: true},
			{ID: 2, Titulo: "Temporada de arequipe", Subtitulo: "2x1 en dulces", Tag: "OFERTA", ColorFondo: "bg-red-500", ColorTexto: "text-white", TextoBoton: "VER MÁS", Enlace: "/productos", Activo: false},
		},
	}
}

// listProducts filters by exact category name and by a case-insensitive
// search over name and description, the way the real backend does.
func (f Fixtures) listProducts(categoria, search string) []catalog.Record {
	term := strings.ToLower(search)
	out := make([]catalog.Record, 0, len(f.Products))
	for _, p := range f.Products {
		if categoria != "" && p.CategoriaNombre != categoria {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Nombre), term) &&
			!strings.Contains(strings.ToLower(p.Descripcion), term) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (f Fixtures) featured() []catalog.Record {
	out := make([]catalog.Record, 0, maxFeatured)
	for _, p := range f.Products {
		if !bool(p.Destacado) {
			continue
		}
		out = append(out, p)
		if len(out) == maxFeatured {
			break
		}
	}
	return out
}

func (f Fixtures) product(id int64) (catalog.Record, bool) {
	for _, p := range f.Products {
		if p.ID == id {
			return p, true
		}
	}
	return catalog.Record{}, false
}

func (f Fixtures) activeBanners() []catalog.Banner {
	out := make([]catalog.Banner, 0, len(f.Banners))
	for _, b := range f.Banners {
		if b.Activo {
			out = append(out, b)
		}
	}
	return out
}
