package domain

import "time"

type Inventory struct {
	ProductID string    `json:"productId"`
	Stock     int       `json:"stock"`
	Version   int       `json:"version"` // optimistic locking
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StockShortfall records a sale that exceeded the tracked stock.
type StockShortfall struct {
	ProductID string
	Requested int
	Available int
}
