// Package order is the confirmed-order document produced by checkout and
// consumed by the confirmation mailer.
package order

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/example/delicias-storefront/internal/domain/cart"
)

// IVARate is the value-added tax applied at checkout.
var IVARate = decimal.NewFromFloat(0.19)

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "tarjeta"
	PaymentPSE  PaymentMethod = "pse"
	PaymentCash PaymentMethod = "efectivo"
)

// Customer is the shipping and contact data entered at checkout.
type Customer struct {
	Nombre     string        `json:"nombre"`
	Direccion  string        `json:"direccion"`
	Ciudad     string        `json:"ciudad"`
	Telefono   string        `json:"telefono"`
	Email      string        `json:"email"`
	MetodoPago PaymentMethod `json:"metodoPago"`
	Terminos   bool          `json:"terminos"`
	UserID     int64         `json:"userId"`
}

type Order struct {
	OrderNumber string          `json:"orderNumber"`
	User        Customer        `json:"user"`
	Products    []cart.LineItem `json:"products"`
	Total       decimal.Decimal `json:"total"`
	Tax         decimal.Decimal `json:"tax"`
	FinalTotal  decimal.Decimal `json:"finalTotal"`
	OrderDate   time.Time       `json:"orderDate"`
}

// Totals is the price breakdown shown in the order summary.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals sums the lines, adds IVA and rounds each figure to cents.
func ComputeTotals(items []cart.LineItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Precio).Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
	}
	tax := subtotal.Mul(IVARate)
	return Totals{
		Subtotal: subtotal.Round(2),
		Tax:      tax.Round(2),
		Total:    subtotal.Add(tax).Round(2),
	}
}

// New assembles an order from the cart contents and customer data.
func New(number string, customer Customer, items []cart.LineItem, placedAt time.Time) Order {
	totals := ComputeTotals(items)
	products := make([]cart.LineItem, len(items))
	copy(products, items)
	return Order{
		OrderNumber: number,
		User:        customer,
		Products:    products,
		Total:       totals.Subtotal,
		Tax:         totals.Tax,
		FinalTotal:  totals.Total,
		OrderDate:   placedAt.UTC(),
	}
}

const orderSuffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewNumber returns "ORD-<unix millis>-<9 random uppercase alphanumerics>".
func NewNumber(now time.Time) string {
	id := uuid.New()
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = orderSuffixAlphabet[int(id[i])%len(orderSuffixAlphabet)]
	}
	return "ORD-" + strconv.FormatInt(now.UnixMilli(), 10) + "-" + string(suffix)
}

// ItemsCount is the number of units ordered.
func (o Order) ItemsCount() int {
	n := 0
	for _, item := range o.Products {
		n += item.Quantity
	}
	return n
}
