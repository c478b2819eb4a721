package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderLine is owned by its Order; lines are written together with the
// order and never updated on their own.
type OrderLine struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unitPrice"`
}

func (l OrderLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

func (l OrderLine) Validate() error {
	if l.ProductID == "" {
		return fmt.Errorf("%w: product id is required", ErrInvalidInput)
	}
	if l.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if l.UnitPrice < 0 {
		return fmt.Errorf("%w: unit price must not be negative", ErrInvalidInput)
	}
	return nil
}

type Order struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	Lines     []OrderLine `json:"lines"`
	Total     int64       `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Transition moves the order to next. Only CREATED orders may change status.
func (o *Order) Transition(next OrderStatus, at time.Time) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, next)
	}
	if o.Status != OrderStatusCreated || next == OrderStatusCreated {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}
	o.Status = next
	o.UpdatedAt = at
	return nil
}

// OrderDetail is an order joined with its owner's profile.
type OrderDetail struct {
	Order
	User UserProfile `json:"user"`
}

func SumLines(lines []OrderLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.Subtotal()
	}
	return total
}
