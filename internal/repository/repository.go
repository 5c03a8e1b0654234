package repository

import (
	"context"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
)

// LineRepository defines persistence operations for order lines. Mutating
// operations run the stock adjustment, the line write, and the order total
// recomputation inside a single transaction.
type LineRepository interface {
	// Create decrements stock for the line's variant, inserts the line, and
	// recomputes the order total atomically. Returns the recomputed total.
	Create(ctx context.Context, line *domain.OrderLine) (int64, error)

	// UpdateQuantity changes a line's quantity, adjusting stock by the delta
	// and recomputing the order total atomically. Returns the updated line
	// and the recomputed total.
	UpdateQuantity(ctx context.Context, lineID string, quantity int) (*domain.OrderLine, int64, error)

	// Delete removes a line, releasing its full quantity back to stock and
	// recomputing the order total atomically. Returns the deleted line and
	// the recomputed total.
	Delete(ctx context.Context, lineID string) (*domain.OrderLine, int64, error)

	// GetByID retrieves a single line.
	GetByID(ctx context.Context, lineID string) (*domain.OrderLine, error)

	// ListByOrder returns all lines for an order in insertion order.
	ListByOrder(ctx context.Context, orderID string) ([]domain.OrderLine, error)
}

// StockRepository defines persistence operations for stock levels.
type StockRepository interface {
	// Initialize creates or replaces the stock record for a variant.
	Initialize(ctx context.Context, stock *domain.Stock) error

	// GetByVariant retrieves the stock record for a variant.
	GetByVariant(ctx context.Context, variantID string) (*domain.Stock, error)

	// ListLowStock returns a page of variants at or below their low-stock
	// threshold, plus the total number of matches.
	ListLowStock(ctx context.Context, limit, offset int) ([]domain.Stock, int, error)
}

// OrderRepository defines persistence operations for order headers.
type OrderRepository interface {
	// Create inserts a new order header.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order header.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// Exists reports whether an order with the given ID exists.
	Exists(ctx context.Context, id string) (bool, error)
}
