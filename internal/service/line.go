package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	"github.com/khangtong/tkt-phone-shop-sub000/internal/repository"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/database"
	apperrors "github.com/khangtong/tkt-phone-shop-sub000/pkg/errors"
)

// Retry policy for transient storage conflicts. The backoff grows linearly:
// 100ms after the first failed attempt, 200ms after the second.
const (
	maxAttempts           = 3
	retryBackoffStep      = 100 * time.Millisecond
	defaultAttemptTimeout = 5 * time.Second
)

// EventPublisher publishes order line domain events. Satisfied by
// *event.Producer.
type EventPublisher interface {
	PublishLineCreated(ctx context.Context, line *domain.OrderLine, orderTotal int64) error
	PublishLineUpdated(ctx context.Context, line *domain.OrderLine, oldQuantity int, orderTotal int64) error
	PublishLineDeleted(ctx context.Context, line *domain.OrderLine, orderTotal int64) error
}

// LineService implements the business logic for order line operations.
type LineService struct {
	lines          repository.LineRepository
	orders         repository.OrderRepository
	events         EventPublisher
	logger         *slog.Logger
	attemptTimeout time.Duration
}

// NewLineService creates a new line service.
func NewLineService(lines repository.LineRepository, orders repository.OrderRepository, events EventPublisher, logger *slog.Logger) *LineService {
	return &LineService{
		lines:          lines,
		orders:         orders,
		events:         events,
		logger:         logger,
		attemptTimeout: defaultAttemptTimeout,
	}
}

// CreateLineInput holds the parameters for adding a line to an order.
type CreateLineInput struct {
	OrderID            string
	ProductID          string
	VariantID          string
	Quantity           int
	PriceAtPurchase    int64
	DiscountAtPurchase int64
}

// UpdateLineInput holds the parameters for updating a line. Only the quantity
// is mutable; the remaining fields exist so that attempts to change them can
// be rejected explicitly instead of silently ignored.
type UpdateLineInput struct {
	Quantity           int
	OrderID            *string
	ProductID          *string
	VariantID          *string
	PriceAtPurchase    *int64
	DiscountAtPurchase *int64
}

// CreateLine adds a line to an order, decrementing stock and recomputing the
// order total. Transient storage conflicts are retried up to three times.
// Returns the created line and the recomputed order total.
func (s *LineService) CreateLine(ctx context.Context, input CreateLineInput) (*domain.OrderLine, int64, error) {
	if input.OrderID == "" {
		return nil, 0, apperrors.InvalidInput("order_id is required")
	}
	if input.ProductID == "" {
		return nil, 0, apperrors.InvalidInput("product_id is required")
	}
	if input.VariantID == "" {
		return nil, 0, apperrors.InvalidInput("variant_id is required")
	}
	if input.Quantity < 1 {
		return nil, 0, apperrors.InvalidInput("quantity must be at least 1")
	}
	if input.PriceAtPurchase < 0 {
		return nil, 0, apperrors.InvalidInput("price_at_purchase must not be negative")
	}
	if input.DiscountAtPurchase < 0 {
		return nil, 0, apperrors.InvalidInput("discount_at_purchase must not be negative")
	}
	if input.DiscountAtPurchase > input.PriceAtPurchase {
		return nil, 0, apperrors.InvalidInput("discount_at_purchase must not exceed price_at_purchase")
	}

	exists, err := s.orders.Exists(ctx, input.OrderID)
	if err != nil {
		return nil, 0, fmt.Errorf("check order: %w", err)
	}
	if !exists {
		return nil, 0, apperrors.NotFound("order", input.OrderID)
	}

	now := time.Now().UTC()
	line := &domain.OrderLine{
		ID:                 uuid.New().String(),
		OrderID:            input.OrderID,
		ProductID:          input.ProductID,
		VariantID:          input.VariantID,
		Quantity:           input.Quantity,
		PriceAtPurchase:    input.PriceAtPurchase,
		DiscountAtPurchase: input.DiscountAtPurchase,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	var total int64
	err = s.withRetry(ctx, "create line", func(ctx context.Context) error {
		var err error
		total, err = s.lines.Create(ctx, line)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	if err := s.events.PublishLineCreated(ctx, line, total); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish orderline.created event",
			slog.String("line_id", line.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "order line created",
		slog.String("line_id", line.ID),
		slog.String("order_id", line.OrderID),
		slog.String("variant_id", line.VariantID),
		slog.Int("quantity", line.Quantity),
		slog.Int64("order_total", total),
	)

	return line, total, nil
}

// UpdateLine changes a line's quantity, adjusting stock by the delta and
// recomputing the order total. Attempts to change the parent order, product,
// variant, price, or discount are rejected.
func (s *LineService) UpdateLine(ctx context.Context, lineID string, input UpdateLineInput) (*domain.OrderLine, int64, error) {
	if lineID == "" {
		return nil, 0, apperrors.InvalidInput("line id is required")
	}
	if input.Quantity < 1 {
		return nil, 0, apperrors.InvalidInput("quantity must be at least 1")
	}

	existing, err := s.lines.GetByID(ctx, lineID)
	if err != nil {
		return nil, 0, err
	}

	if input.OrderID != nil && *input.OrderID != existing.OrderID {
		return nil, 0, apperrors.ImmutableField("order_id")
	}
	if input.ProductID != nil && *input.ProductID != existing.ProductID {
		return nil, 0, apperrors.ImmutableField("product_id")
	}
	if input.VariantID != nil && *input.VariantID != existing.VariantID {
		return nil, 0, apperrors.ImmutableField("variant_id")
	}
	if input.PriceAtPurchase != nil && *input.PriceAtPurchase != existing.PriceAtPurchase {
		return nil, 0, apperrors.ImmutableField("price_at_purchase")
	}
	if input.DiscountAtPurchase != nil && *input.DiscountAtPurchase != existing.DiscountAtPurchase {
		return nil, 0, apperrors.ImmutableField("discount_at_purchase")
	}

	oldQuantity := existing.Quantity

	var (
		line  *domain.OrderLine
		total int64
	)
	err = s.withRetry(ctx, "update line quantity", func(ctx context.Context) error {
		var err error
		line, total, err = s.lines.UpdateQuantity(ctx, lineID, input.Quantity)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	if err := s.events.PublishLineUpdated(ctx, line, oldQuantity, total); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish orderline.updated event",
			slog.String("line_id", line.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order line quantity updated",
		slog.String("line_id", line.ID),
		slog.String("order_id", line.OrderID),
		slog.Int("old_quantity", oldQuantity),
		slog.Int("new_quantity", line.Quantity),
		slog.Int64("order_total", total),
	)

	return line, total, nil
}

// DeleteLine removes a line, returning its full quantity to stock and
// recomputing the order total.
func (s *LineService) DeleteLine(ctx context.Context, lineID string) (int64, error) {
	if lineID == "" {
		return 0, apperrors.InvalidInput("line id is required")
	}

	var (
		line  *domain.OrderLine
		total int64
	)
	err := s.withRetry(ctx, "delete line", func(ctx context.Context) error {
		var err error
		line, total, err = s.lines.Delete(ctx, lineID)
		return err
	})
	if err != nil {
		return 0, err
	}

	if err := s.events.PublishLineDeleted(ctx, line, total); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish orderline.deleted event",
			slog.String("line_id", line.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order line deleted",
		slog.String("line_id", line.ID),
		slog.String("order_id", line.OrderID),
		slog.Int("released_quantity", line.Quantity),
		slog.Int64("order_total", total),
	)

	return total, nil
}

// GetLine retrieves a single line.
func (s *LineService) GetLine(ctx context.Context, lineID string) (*domain.OrderLine, error) {
	if lineID == "" {
		return nil, apperrors.InvalidInput("line id is required")
	}
	return s.lines.GetByID(ctx, lineID)
}

// ListLines returns all lines for an order, oldest first.
func (s *LineService) ListLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	exists, err := s.orders.Exists(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("check order: %w", err)
	}
	if !exists {
		return nil, apperrors.NotFound("order", orderID)
	}

	return s.lines.ListByOrder(ctx, orderID)
}

// withRetry runs fn with a per-attempt timeout, retrying transient storage
// conflicts with linear backoff. Business errors pass through on the first
// attempt; only errors classified retryable by the storage layer are retried.
func (s *LineService) withRetry(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			return nil
		}
		if !database.IsRetryable(err) {
			return err
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}

		backoff := time.Duration(attempt) * retryBackoffStep
		s.logger.WarnContext(ctx, "transient conflict, retrying",
			slog.String("operation", operation),
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", err.Error()),
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return apperrors.RetriesExhausted(operation, maxAttempts, lastErr)
}
