// Package catalog reads the product catalog from the storefront API and
// derives the filtered, sorted view shown on the products page.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/delicias-storefront/internal/domain/cart"
)

// Record is a product as the API serializes it. Several fields arrive in
// more than one shape depending on the backend version.
type Record struct {
	ID              int64       `json:"id"`
	Nombre          string      `json:"nombre"`
	Descripcion     string      `json:"descripcion"`
	Precio          Amount      `json:"precio"`
	PrecioOriginal  Amount      `json:"precio_original,omitempty"`
	Categoria       CategoryRef `json:"categoria"`
	CategoriaNombre string      `json:"categoria_nombre"`
	Stock           int         `json:"stock"`
	Imagen          string      `json:"imagen"`
	Destacado       Flag        `json:"destacado"`
}

// Product is the normalized product used for display, filtering and the cart.
type Product struct {
	ID             int64   `json:"id"`
	Nombre         string  `json:"nombre"`
	Descripcion    string  `json:"descripcion"`
	Precio         float64 `json:"precio"`
	PrecioOriginal float64 `json:"precio_original,omitempty"`
	Categoria      string  `json:"categoria"`
	Stock          int     `json:"stock"`
	Imagen         string  `json:"imagen,omitempty"`
	Destacado      bool    `json:"destacado"`
}

// FreeShippingThreshold is the price above which a product ships free.
const FreeShippingThreshold = 50000

func (p Product) EnvioGratis() bool {
	return p.Precio > FreeShippingThreshold
}

func (p Product) EnOferta() bool {
	return p.PrecioOriginal > p.Precio
}

// CartProduct is the subset of p the cart keeps per line.
func (p Product) CartProduct() cart.Product {
	return cart.Product{ID: p.ID, Nombre: p.Nombre, Precio: p.Precio, Imagen: p.Imagen}
}

type Category struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// Banner is a home page promotion.
type Banner struct {
	ID         int64  `json:"id"`
	Titulo     string `json:"titulo"`
	Subtitulo  string `json:"subtitulo"`
	Tag        string `json:"tag"`
	Imagen     string `json:"imagen"`
	ColorFondo string `json:"color_fondo"`
	ColorTexto string `json:"color_texto"`
	TextoBoton string `json:"texto_boton"`
	Enlace     string `json:"enlace"`
	Activo     bool   `json:"activo"`
}

// Amount decodes a price sent either as a JSON number or as a decimal string
// such as "18000.00". Anything unparsable decodes to zero.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = 0
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	f, _ := d.Float64()
	*a = Amount(f)
	return nil
}

// MarshalJSON writes the two-decimal string form, e.g. "18000.00".
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(decimal.NewFromFloat(float64(a)).StringFixed(2))
}

// CategoryRef is the "categoria" field: a numeric foreign key or a name.
type CategoryRef struct {
	ID   int64
	Name string
}

func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	*c = CategoryRef{}
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		return nil
	case data[0] == '"':
		return json.Unmarshal(data, &c.Name)
	default:
		id, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return nil
		}
		c.ID = id
		return nil
	}
}

func (c CategoryRef) MarshalJSON() ([]byte, error) {
	if c.Name != "" {
		return json.Marshal(c.Name)
	}
	if c.ID != 0 {
		return json.Marshal(c.ID)
	}
	return []byte("null"), nil
}

// Flag accepts true/false, 0/1 and their string forms.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	switch strings.ToLower(s) {
	case "true", "1", "si", "sí", "yes":
		*f = true
	default:
		*f = false
	}
	return nil
}
