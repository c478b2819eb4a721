package domain

import "time"

type EventLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// OrderPlacedEvent is published once per durable order write. Consumers
// must tolerate receiving the same event more than once.
type OrderPlacedEvent struct {
	OrderID  string      `json:"orderId"`
	UserID   string      `json:"userId"`
	Total    int64       `json:"total"`
	Lines    []EventLine `json:"lines"`
	PlacedAt time.Time   `json:"placedAt"`
}

func NewOrderPlacedEvent(o Order) OrderPlacedEvent {
	lines := make([]EventLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, EventLine{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return OrderPlacedEvent{
		OrderID:  o.ID,
		UserID:   o.UserID,
		Total:    o.Total,
		Lines:    lines,
		PlacedAt: o.CreatedAt,
	}
}

// OutboxRecord is an order-placed event awaiting confirmed publication.
type OutboxRecord struct {
	ID          string
	Event       OrderPlacedEvent
	CreatedAt   time.Time
	PublishedAt *time.Time
}
