package domain

import "time"

type ReceiptStatus string

const (
	ReceiptStatusCompleted ReceiptStatus = "completed"
)

// String representation (for logging)
func (s ReceiptStatus) String() string {
	return string(s)
}

// Receipt is returned once per checkout and never persisted.
type Receipt struct {
	ID        string         `json:"id"`
	Items     []CartItemView `json:"items"`
	Total     float64        `json:"total"`
	Timestamp time.Time      `json:"timestamp"`
	Status    ReceiptStatus  `json:"status"`
}
