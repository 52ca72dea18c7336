package order

import "time"

const EventOrderPlaced = "OrderPlaced"

// PlacedEvent is published when a checkout completes.
type PlacedEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Order      Order     `json:"order"`
}

func NewPlacedEvent(o Order) PlacedEvent {
	return PlacedEvent{
		EventType:  EventOrderPlaced,
		OccurredAt: o.OrderDate,
		Order:      o,
	}
}

// EventName lets transports tag the message without decoding it.
func (e PlacedEvent) EventName() string { return e.EventType }
