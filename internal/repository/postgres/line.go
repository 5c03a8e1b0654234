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

const lineColumns = `id, order_id, product_id, variant_id, quantity, price_at_purchase, discount_at_purchase, created_at, updated_at`

// LineRepository implements repository.LineRepository using PostgreSQL.
//
// Every mutating operation runs as a single transaction at REPEATABLE READ:
// the stock adjustment, the line write, and the order total recomputation
// either all commit or all roll back. Concurrent transactions touching the
// same rows surface as serialization failures, which the service layer
// retries.
type LineRepository struct {
	pool database.DBTX
}

// NewLineRepository creates a new PostgreSQL-backed line repository.
func NewLineRepository(pool database.DBTX) *LineRepository {
	return &LineRepository{pool: pool}
}

// Create decrements stock for the line's variant, inserts the line, and
// recomputes the order total atomically. Returns the recomputed total.
func (r *LineRepository) Create(ctx context.Context, line *domain.OrderLine) (total int64, err error) {
	ctx, end := database.TraceQuery(ctx, "line.create", "")
	defer func() { end(err) }()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err = decrementStock(ctx, tx, line.VariantID, line.Quantity); err != nil {
		return 0, err
	}

	insertQuery := `
		INSERT INTO order_lines (id, order_id, product_id, variant_id, quantity, price_at_purchase, discount_at_purchase, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.Exec(ctx, insertQuery,
		line.ID,
		line.OrderID,
		line.ProductID,
		line.VariantID,
		line.Quantity,
		line.PriceAtPurchase,
		line.DiscountAtPurchase,
		line.CreatedAt,
		line.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order line: %w", err)
	}

	total, err = recomputeOrderTotal(ctx, tx, line.OrderID)
	if err != nil {
		return 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}

	return total, nil
}

// UpdateQuantity changes a line's quantity, adjusting stock by the delta and
// recomputing the order total atomically.
func (r *LineRepository) UpdateQuantity(ctx context.Context, lineID string, quantity int) (line *domain.OrderLine, total int64, err error) {
	ctx, end := database.TraceQuery(ctx, "line.update_quantity", "")
	defer func() { end(err) }()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	line, err = lockLine(ctx, tx, lineID)
	if err != nil {
		return nil, 0, err
	}

	delta := quantity - line.Quantity
	switch {
	case delta > 0:
		err = decrementStock(ctx, tx, line.VariantID, delta)
	case delta < 0:
		err = incrementStock(ctx, tx, line.VariantID, -delta)
	}
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	_, err = tx.Exec(ctx,
		`UPDATE order_lines SET quantity = $1, updated_at = $2 WHERE id = $3`,
		quantity, now, lineID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("update order line: %w", err)
	}
	line.Quantity = quantity
	line.UpdatedAt = now

	total, err = recomputeOrderTotal(ctx, tx, line.OrderID)
	if err != nil {
		return nil, 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit transaction: %w", err)
	}

	return line, total, nil
}

// Delete removes a line, releasing its full quantity back to stock and
// recomputing the order total atomically.
func (r *LineRepository) Delete(ctx context.Context, lineID string) (line *domain.OrderLine, total int64, err error) {
	ctx, end := database.TraceQuery(ctx, "line.delete", "")
	defer func() { end(err) }()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	line, err = lockLine(ctx, tx, lineID)
	if err != nil {
		return nil, 0, err
	}

	if err = incrementStock(ctx, tx, line.VariantID, line.Quantity); err != nil {
		return nil, 0, err
	}

	_, err = tx.Exec(ctx, `DELETE FROM order_lines WHERE id = $1`, lineID)
	if err != nil {
		return nil, 0, fmt.Errorf("delete order line: %w", err)
	}

	total, err = recomputeOrderTotal(ctx, tx, line.OrderID)
	if err != nil {
		return nil, 0, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit transaction: %w", err)
	}

	return line, total, nil
}

// GetByID retrieves a single line.
func (r *LineRepository) GetByID(ctx context.Context, lineID string) (*domain.OrderLine, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE id = $1`

	var line domain.OrderLine
	err := r.pool.QueryRow(ctx, query, lineID).Scan(
		&line.ID,
		&line.OrderID,
		&line.ProductID,
		&line.VariantID,
		&line.Quantity,
		&line.PriceAtPurchase,
		&line.DiscountAtPurchase,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order line", lineID)
		}
		return nil, fmt.Errorf("scan order line: %w", err)
	}

	return &line, nil
}

// ListByOrder returns all lines for an order, oldest first.
func (r *LineRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE order_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()

	lines := make([]domain.OrderLine, 0)
	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(
			&line.ID,
			&line.OrderID,
			&line.ProductID,
			&line.VariantID,
			&line.Quantity,
			&line.PriceAtPurchase,
			&line.DiscountAtPurchase,
			&line.CreatedAt,
			&line.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan order line row: %w", err)
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order line rows: %w", err)
	}

	return lines, nil
}

// lockLine loads a line inside the transaction with a row lock so the
// quantity delta is computed against a stable value.
func lockLine(ctx context.Context, q database.Querier, lineID string) (*domain.OrderLine, error) {
	query := `SELECT ` + lineColumns + ` FROM order_lines WHERE id = $1 FOR UPDATE`

	var line domain.OrderLine
	err := q.QueryRow(ctx, query, lineID).Scan(
		&line.ID,
		&line.OrderID,
		&line.ProductID,
		&line.VariantID,
		&line.Quantity,
		&line.PriceAtPurchase,
		&line.DiscountAtPurchase,
		&line.CreatedAt,
		&line.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order line", lineID)
		}
		return nil, fmt.Errorf("lock order line: %w", err)
	}

	return &line, nil
}

// decrementStock performs a conditional decrement: the row is only updated
// when enough stock remains, so availability is checked and consumed in one
// statement. A zero-row result means either the variant does not exist or the
// stock is insufficient; a follow-up read distinguishes the two.
func decrementStock(ctx context.Context, q database.Querier, variantID string, qty int) error {
	ct, err := q.Exec(ctx,
		`UPDATE stock SET quantity = quantity - $1, updated_at = $2 WHERE variant_id = $3 AND quantity >= $1`,
		qty, time.Now().UTC(), variantID,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}

	if ct.RowsAffected() == 0 {
		var available int
		err := q.QueryRow(ctx, `SELECT quantity FROM stock WHERE variant_id = $1`, variantID).Scan(&available)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("variant", variantID)
		}
		if err != nil {
			return fmt.Errorf("read stock level: %w", err)
		}
		return apperrors.InsufficientStock(variantID, available)
	}

	return nil
}

// incrementStock returns quantity to the variant's stock.
func incrementStock(ctx context.Context, q database.Querier, variantID string, qty int) error {
	ct, err := q.Exec(ctx,
		`UPDATE stock SET quantity = quantity + $1, updated_at = $2 WHERE variant_id = $3`,
		qty, time.Now().UTC(), variantID,
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("variant", variantID)
	}

	return nil
}

// recomputeOrderTotal derives the order total from its lines and writes it to
// the order header. Running inside the caller's transaction keeps the stored
// total consistent with the lines at every commit.
func recomputeOrderTotal(ctx context.Context, q database.Querier, orderID string) (int64, error) {
	var total int64
	err := q.QueryRow(ctx,
		`SELECT COALESCE(SUM(price_at_purchase * quantity), 0) FROM order_lines WHERE order_id = $1`,
		orderID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum order lines: %w", err)
	}

	ct, err := q.Exec(ctx,
		`UPDATE orders SET total_amount = $1, updated_at = $2 WHERE id = $3`,
		total, time.Now().UTC(), orderID,
	)
	if err != nil {
		return 0, fmt.Errorf("update order total: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return 0, apperrors.NotFound("order", orderID)
	}

	return total, nil
}
