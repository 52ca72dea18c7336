package cart

// Reduce returns the state that results from applying action to state.
// The input state is never modified.
func Reduce(state State, action Action) State {
	switch action.Type {
	case ActionLoadCart:
		return sanitize(action.Items)

	case ActionAddItem:
		next := state.clone()
		for i, item := range next.Items {
			if item.ID == action.Product.ID {
				next.Items[i].Quantity++
				return next
			}
		}
		next.Items = append(next.Items, LineItem{Product: action.Product, Quantity: 1})
		return next

	case ActionRemoveItem:
		return removeItem(state, action.ProductID)

	case ActionUpdateQuantity:
		if action.Quantity <= 0 {
			return removeItem(state, action.ProductID)
		}
		next := state.clone()
		for i, item := range next.Items {
			if item.ID == action.ProductID {
				next.Items[i].Quantity = action.Quantity
			}
		}
		return next

	case ActionClearCart:
		return State{Items: []LineItem{}}
	}

	return state
}

func removeItem(state State, productID int64) State {
	items := make([]LineItem, 0, len(state.Items))
	for _, item := range state.Items {
		if item.ID != productID {
			items = append(items, item)
		}
	}
	return State{Items: items}
}

// sanitize enforces the cart invariants on rehydrated data: one line per id
// (first occurrence keeps its position, quantities merge) and quantity >= 1.
func sanitize(items []LineItem) State {
	out := make([]LineItem, 0, len(items))
	index := make(map[int64]int, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if i, ok := index[item.ID]; ok {
			out[i].Quantity += item.Quantity
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item)
	}
	return State{Items: out}
}
