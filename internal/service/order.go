package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	"github.com/khangtong/tkt-phone-shop-sub000/internal/repository"
	apperrors "github.com/khangtong/tkt-phone-shop-sub000/pkg/errors"
)

// OrderService implements the business logic for order header operations.
// Lines are managed separately through LineService; an order starts empty
// with a zero total.
type OrderService struct {
	orders repository.OrderRepository
	lines  repository.LineRepository
	logger *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orders repository.OrderRepository, lines repository.LineRepository, logger *slog.Logger) *OrderService {
	return &OrderService{
		orders: orders,
		lines:  lines,
		logger: logger,
	}
}

// CreateOrderInput holds the parameters for creating an order.
type CreateOrderInput struct {
	UserID   string
	Currency string
}

// OrderWithLines bundles an order header with its lines.
type OrderWithLines struct {
	Order *domain.Order      `json:"order"`
	Lines []domain.OrderLine `json:"lines"`
}

// CreateOrder creates a new empty order.
func (s *OrderService) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, apperrors.InvalidInput("user_id is required")
	}
	if len(input.Currency) != 3 {
		return nil, apperrors.InvalidInput("currency must be a 3-letter ISO code")
	}

	now := time.Now().UTC()
	order := &domain.Order{
		ID:          uuid.New().String(),
		UserID:      input.UserID,
		Status:      domain.OrderStatusPending,
		TotalAmount: 0,
		Currency:    strings.ToUpper(input.Currency),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
	)

	return order, nil
}

// GetOrder retrieves an order header together with its lines.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*OrderWithLines, error) {
	if orderID == "" {
		return nil, apperrors.InvalidInput("order id is required")
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.lines.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return &OrderWithLines{Order: order, Lines: lines}, nil
}
