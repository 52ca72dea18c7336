package cart

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/example/delicias-storefront/internal/apperrors"
	"github.com/example/delicias-storefront/internal/domain/persist"
	"github.com/example/delicias-storefront/internal/infrastructure/store"
)

// Listener is called with the new state after every change.
type Listener func(State)

// Store owns the authoritative cart and mirrors it to a KeyValueStore under
// store.KeyCart. All mutations go through Dispatch.
type Store struct {
	mu        sync.Mutex
	state     State
	storage   store.KeyValueStore
	logger    *zap.Logger
	listeners map[int]Listener
	nextID    int
}

// NewStore creates the cart and rehydrates it once from storage. Missing or
// unreadable data yields an empty cart.
func NewStore(ctx context.Context, storage store.KeyValueStore, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		state:     State{Items: []LineItem{}},
		storage:   storage,
		logger:    logger.Named("cart"),
		listeners: make(map[int]Listener),
	}
	s.hydrate(ctx)
	return s
}

func (s *Store) hydrate(ctx context.Context) {
	var saved State
	found, err := persist.Load(ctx, s.storage, store.KeyCart, &saved)
	if err != nil {
		if errors.Is(err, apperrors.ErrStorageParse) {
			s.logger.Warn("discarding unreadable saved cart", zap.Error(err))
		} else {
			s.logger.Warn("failed to read saved cart", zap.Error(err))
		}
		return
	}
	if !found {
		return
	}
	s.state = Reduce(s.state, LoadCart(saved.Items))
	s.logger.Debug("cart restored", zap.Int("lines", len(s.state.Items)))
}

// Dispatch applies action, persists the resulting state and notifies listeners.
// A failed write is logged; the in-memory cart stays authoritative.
func (s *Store) Dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	next := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}

	if err := persist.Save(ctx, s.storage, store.KeyCart, next); err != nil {
		s.logger.Warn("failed to persist cart",
			zap.String("action", string(action.Type)),
			zap.Error(err),
		)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(next.clone())
	}
	return next
}

// AddToCart increments the line for p.ID or appends a new line with quantity 1.
func (s *Store) AddToCart(ctx context.Context, p Product) {
	s.Dispatch(ctx, AddItem(p))
}

// RemoveFromCart deletes the line for productID; absent ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, productID int64) {
	s.Dispatch(ctx, RemoveItem(productID))
}

// UpdateQuantity sets the line quantity. A quantity of zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(ctx, productID)
		return
	}
	s.Dispatch(ctx, UpdateQuantity(productID, quantity))
}

// ClearCart empties the cart and persists the empty state.
func (s *Store) ClearCart(ctx context.Context) {
	s.Dispatch(ctx, ClearCart())
}

// State returns a copy of the current cart.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Items returns a copy of the line items in display order.
func (s *Store) Items() []LineItem {
	return s.State().Items
}

// Total is the sum of precio * quantity. Rounding is left to the caller.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Total()
}

// ItemsCount is the number of units in the cart.
func (s *Store) ItemsCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ItemsCount()
}

// Subscribe registers fn for state changes and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}
