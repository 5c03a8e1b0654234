package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	"github.com/khangtong/tkt-phone-shop-sub000/internal/repository"
	apperrors "github.com/khangtong/tkt-phone-shop-sub000/pkg/errors"
)

const (
	// DefaultPerPage is the page size used when the caller does not ask for one.
	DefaultPerPage = 20
	// MaxPerPage caps the page size a caller may request.
	MaxPerPage = 100
)

// StockService implements the business logic for stock operations.
type StockService struct {
	stock  repository.StockRepository
	logger *slog.Logger
}

// NewStockService creates a new stock service.
func NewStockService(stock repository.StockRepository, logger *slog.Logger) *StockService {
	return &StockService{
		stock:  stock,
		logger: logger,
	}
}

// InitializeStockInput holds the parameters for seeding a variant's stock.
type InitializeStockInput struct {
	VariantID         string
	ProductID         string
	Quantity          int
	LowStockThreshold int
}

// InitializeStock creates or replaces the stock record for a variant.
func (s *StockService) InitializeStock(ctx context.Context, input InitializeStockInput) (*domain.Stock, error) {
	if input.VariantID == "" {
		return nil, apperrors.InvalidInput("variant_id is required")
	}
	if input.ProductID == "" {
		return nil, apperrors.InvalidInput("product_id is required")
	}
	if input.Quantity < 0 {
		return nil, apperrors.InvalidInput("quantity must not be negative")
	}
	if input.LowStockThreshold < 0 {
		return nil, apperrors.InvalidInput("low_stock_threshold must not be negative")
	}

	stock := &domain.Stock{
		VariantID:         input.VariantID,
		ProductID:         input.ProductID,
		Quantity:          input.Quantity,
		LowStockThreshold: input.LowStockThreshold,
		UpdatedAt:         time.Now().UTC(),
	}

	if err := s.stock.Initialize(ctx, stock); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "stock initialized",
		slog.String("variant_id", stock.VariantID),
		slog.Int("quantity", stock.Quantity),
	)

	return stock, nil
}

// GetStock retrieves the stock record for a variant.
func (s *StockService) GetStock(ctx context.Context, variantID string) (*domain.Stock, error) {
	if variantID == "" {
		return nil, apperrors.InvalidInput("variant id is required")
	}
	return s.stock.GetByVariant(ctx, variantID)
}

// ListLowStock returns a page of variants at or below their low-stock
// threshold, plus the total match count. Page is 1-based; out-of-range
// pagination values are normalized.
func (s *StockService) ListLowStock(ctx context.Context, page, perPage int) ([]domain.Stock, int, error) {
	page, perPage = NormalizePagination(page, perPage)
	return s.stock.ListLowStock(ctx, perPage, (page-1)*perPage)
}

// NormalizePagination clamps a 1-based page and per-page pair into the
// supported range, applying DefaultPerPage when per-page is unset.
func NormalizePagination(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}
