package domain

import "time"

// Stock represents the inventory level for a product variant. Quantity is a
// non-negative counter decremented when order lines are created and restored
// when they shrink or are deleted.
type Stock struct {
	VariantID         string    `json:"variant_id"`
	ProductID         string    `json:"product_id"`
	Quantity          int       `json:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsLow reports whether the quantity is at or below the low-stock threshold.
func (s *Stock) IsLow() bool {
	return s.Quantity <= s.LowStockThreshold
}
