package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	CategoryGeneral = "General"

	placeholderNombre      = "Producto sin nombre"
	placeholderDescripcion = "Descripción no disponible"
)

// categoryByID covers catalogs that send only the category foreign key.
var categoryByID = map[int64]string{
	1: "Carnes",
	2: "Lácteos",
	3: "Panadería",
	4: "Bebidas",
	5: "Dulces",
}

// accentFixes restores accents lost in category names typed without them.
var accentFixes = map[string]string{
	"Lacteos":   "Lácteos",
	"Panaderia": "Panadería",
}

// Normalize turns an API record into a display product. fallbackID is used
// when the record has no id.
func Normalize(r Record, fallbackID int64) Product {
	p := Product{
		ID:             r.ID,
		Nombre:         r.Nombre,
		Descripcion:    r.Descripcion,
		Precio:         float64(r.Precio),
		PrecioOriginal: float64(r.PrecioOriginal),
		Categoria:      CategoryName(r),
		Stock:          r.Stock,
		Imagen:         r.Imagen,
		Destacado:      bool(r.Destacado),
	}
	if p.ID == 0 {
		p.ID = fallbackID
	}
	if p.Nombre == "" {
		p.Nombre = placeholderNombre
	}
	if p.Descripcion == "" {
		p.Descripcion = placeholderDescripcion
	}
	return p
}

// NormalizeAll normalizes records in order. Records without an id get
// baseID plus their index.
func NormalizeAll(records []Record, baseID int64) []Product {
	out := make([]Product, 0, len(records))
	for i, r := range records {
		out = append(out, Normalize(r, baseID+int64(i)))
	}
	return out
}

// CategoryName resolves the display category of r: the serialized category
// name, then the known id map, then the capitalized category string.
func CategoryName(r Record) string {
	if name := strings.TrimSpace(r.CategoriaNombre); name != "" {
		return name
	}
	if r.Categoria.Name != "" {
		name := capitalize(r.Categoria.Name)
		if fixed, ok := accentFixes[name]; ok {
			return fixed
		}
		return name
	}
	if name, ok := categoryByID[r.Categoria.ID]; ok {
		return name
	}
	return CategoryGeneral
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// ResolveImage turns a relative media reference into an absolute URL under
// mediaBase, e.g. "http://localhost:8000/media". Absolute URLs and empty
// references are returned unchanged.
func ResolveImage(mediaBase, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	base := strings.TrimRight(mediaBase, "/")
	ref = strings.TrimPrefix(ref, "/")
	ref = strings.TrimPrefix(ref, "media/")
	return base + "/" + ref
}
