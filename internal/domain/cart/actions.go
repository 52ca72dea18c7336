package cart

// ActionType names a cart state transition.
type ActionType string

const (
	ActionLoadCart       ActionType = "LOAD_CART"
	ActionAddItem        ActionType = "ADD_ITEM"
	ActionRemoveItem     ActionType = "REMOVE_ITEM"
	ActionUpdateQuantity ActionType = "UPDATE_QUANTITY"
	ActionClearCart      ActionType = "CLEAR_CART"
)

// Action is the single input of Reduce. Only the fields relevant to Type are read.
type Action struct {
	Type ActionType

	// ADD_ITEM
	Product Product
	// REMOVE_ITEM, UPDATE_QUANTITY
	ProductID int64
	// UPDATE_QUANTITY
	Quantity int
	// LOAD_CART
	Items []LineItem
}

// LoadCart replaces the cart with items restored from storage.
func LoadCart(items []LineItem) Action {
	return Action{Type: ActionLoadCart, Items: items}
}

// AddItem adds one unit of p, appending a line if p is not in the cart yet.
func AddItem(p Product) Action {
	return Action{Type: ActionAddItem, Product: p}
}

// RemoveItem drops the line for productID.
func RemoveItem(productID int64) Action {
	return Action{Type: ActionRemoveItem, ProductID: productID}
}

// UpdateQuantity sets the quantity of an existing line. Zero or less removes it.
func UpdateQuantity(productID int64, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, ProductID: productID, Quantity: quantity}
}

// ClearCart empties the cart.
func ClearCart() Action {
	return Action{Type: ActionClearCart}
}
