package cart

import (
	"encoding/json"
)

// Product is what gets added to the cart: the catalog fields a line item keeps.
type Product struct {
	ID     int64   `json:"id"`
	Nombre string  `json:"nombre"`
	Precio float64 `json:"precio"`
	Imagen string  `json:"imagen,omitempty"`
}

// LineItem is one product entry in the cart with its own quantity.
type LineItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is precio * quantity for the line.
func (li LineItem) Subtotal() float64 {
	return li.Precio * float64(li.Quantity)
}

// State is the cart contents in display order.
type State struct {
	Items []LineItem `json:"items"`
}

// UnmarshalJSON accepts both the {"items": [...]} document and a bare array of
// line items.
func (s *State) UnmarshalJSON(data []byte) error {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err == nil {
		s.Items = items
		return nil
	}

	type plain State
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = State(p)
	return nil
}

// Total returns the sum of precio * quantity over all line items.
func (s State) Total() float64 {
	var total float64
	for _, item := range s.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemsCount returns the total number of units, not lines.
func (s State) ItemsCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Find returns the line item for productID.
func (s State) Find(productID int64) (LineItem, bool) {
	for _, item := range s.Items {
		if item.ID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

func (s State) clone() State {
	if s.Items == nil {
		return State{Items: []LineItem{}}
	}
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items}
}
