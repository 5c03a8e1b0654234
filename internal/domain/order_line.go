package domain

import "time"

// OrderLine represents a single line on an order: one product variant, a
// quantity, and the price and discount captured at purchase time. Price and
// discount are stored in minor currency units.
type OrderLine struct {
	ID                 string    `json:"id"`
	OrderID            string    `json:"order_id"`
	ProductID          string    `json:"product_id"`
	VariantID          string    `json:"variant_id"`
	Quantity           int       `json:"quantity"`
	PriceAtPurchase    int64     `json:"price_at_purchase"`
	DiscountAtPurchase int64     `json:"discount_at_purchase"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// LineTotal returns the gross total for this line before discount.
func (l *OrderLine) LineTotal() int64 {
	return l.PriceAtPurchase * int64(l.Quantity)
}

// Subtotal returns the line total after the per-unit discount is applied.
func (l *OrderLine) Subtotal() int64 {
	return (l.PriceAtPurchase - l.DiscountAtPurchase) * int64(l.Quantity)
}
