package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineTotal_BasicCalculation(t *testing.T) {
	line := OrderLine{PriceAtPurchase: 1999, Quantity: 3}
	assert.Equal(t, int64(5997), line.LineTotal())
}

func TestLineTotal_SingleUnit(t *testing.T) {
	line := OrderLine{PriceAtPurchase: 500, Quantity: 1}
	assert.Equal(t, int64(500), line.LineTotal())
}

func TestLineTotal_ZeroPrice(t *testing.T) {
	line := OrderLine{PriceAtPurchase: 0, Quantity: 5}
	assert.Equal(t, int64(0), line.LineTotal())
}

func TestLineTotal_LargeValues(t *testing.T) {
	line := OrderLine{PriceAtPurchase: 99999999, Quantity: 1000}
	assert.Equal(t, int64(99999999000), line.LineTotal())
}

func TestSubtotal_DiscountApplied(t *testing.T) {
	line := OrderLine{PriceAtPurchase: 2000, DiscountAtPurchase: 500, Quantity: 2}
	assert.Equal(t, int64(3000), line.Subtotal())
}

func TestSubtotal_NoDiscount(t *testing.T) {
	line := OrderLine{PriceAtPurchase: 2000, Quantity: 2}
	assert.Equal(t, line.LineTotal(), line.Subtotal())
}
