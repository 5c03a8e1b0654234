package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/database"
	apperrors "github.com/khangtong/tkt-phone-shop-sub000/pkg/errors"
)

// StockRepository implements repository.StockRepository using PostgreSQL.
type StockRepository struct {
	pool database.DBTX
}

// NewStockRepository creates a new PostgreSQL-backed stock repository.
func NewStockRepository(pool database.DBTX) *StockRepository {
	return &StockRepository{pool: pool}
}

// Initialize creates or replaces the stock record for a variant.
func (r *StockRepository) Initialize(ctx context.Context, stock *domain.Stock) error {
	query := `
		INSERT INTO stock (variant_id, product_id, quantity, low_stock_threshold, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (variant_id) DO UPDATE
		SET product_id = EXCLUDED.product_id,
			quantity = EXCLUDED.quantity,
			low_stock_threshold = EXCLUDED.low_stock_threshold,
			updated_at = EXCLUDED.updated_at`

	_, err := r.pool.Exec(ctx, query,
		stock.VariantID,
		stock.ProductID,
		stock.Quantity,
		stock.LowStockThreshold,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("initialize stock: %w", err)
	}

	return nil
}

// GetByVariant retrieves the stock record for a variant.
func (r *StockRepository) GetByVariant(ctx context.Context, variantID string) (*domain.Stock, error) {
	query := `
		SELECT variant_id, product_id, quantity, low_stock_threshold, updated_at
		FROM stock
		WHERE variant_id = $1`

	var s domain.Stock
	err := r.pool.QueryRow(ctx, query, variantID).Scan(
		&s.VariantID,
		&s.ProductID,
		&s.Quantity,
		&s.LowStockThreshold,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("variant", variantID)
		}
		return nil, fmt.Errorf("scan stock: %w", err)
	}

	return &s, nil
}

// ListLowStock returns a page of variants at or below their low-stock
// threshold, most depleted first, plus the total number of matches.
func (r *StockRepository) ListLowStock(ctx context.Context, limit, offset int) ([]domain.Stock, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM stock WHERE quantity <= low_stock_threshold`
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count low stock: %w", err)
	}

	query := `
		SELECT variant_id, product_id, quantity, low_stock_threshold, updated_at
		FROM stock
		WHERE quantity <= low_stock_threshold
		ORDER BY quantity
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	stocks := make([]domain.Stock, 0)
	for rows.Next() {
		var s domain.Stock
		if err := rows.Scan(
			&s.VariantID,
			&s.ProductID,
			&s.Quantity,
			&s.LowStockThreshold,
			&s.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan stock row: %w", err)
		}
		stocks = append(stocks, s)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate stock rows: %w", err)
	}

	return stocks, total, nil
}
