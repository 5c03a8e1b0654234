package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockIsLow(t *testing.T) {
	assert.True(t, (&Stock{Quantity: 3, LowStockThreshold: 5}).IsLow())
	assert.True(t, (&Stock{Quantity: 5, LowStockThreshold: 5}).IsLow())
	assert.False(t, (&Stock{Quantity: 6, LowStockThreshold: 5}).IsLow())
}
