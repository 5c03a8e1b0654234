package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	apperrors "github.com/khangtong/tkt-phone-shop-sub000/pkg/errors"
)

type mockStockRepository struct {
	mock.Mock
}

func (m *mockStockRepository) Initialize(ctx context.Context, stock *domain.Stock) error {
	args := m.Called(ctx, stock)
	return args.Error(0)
}

func (m *mockStockRepository) GetByVariant(ctx context.Context, variantID string) (*domain.Stock, error) {
	args := m.Called(ctx, variantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stock), args.Error(1)
}

func (m *mockStockRepository) ListLowStock(ctx context.Context, limit, offset int) ([]domain.Stock, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Stock), args.Int(1), args.Error(2)
}

func validStockInput() InitializeStockInput {
	return InitializeStockInput{
		VariantID:         "var-001",
		ProductID:         "prod-001",
		Quantity:          25,
		LowStockThreshold: 5,
	}
}

func TestInitializeStock_Success(t *testing.T) {
	repo := new(mockStockRepository)
	svc := NewStockService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("Initialize", ctx, mock.AnythingOfType("*domain.Stock")).Return(nil).Once()

	stock, err := svc.InitializeStock(ctx, validStockInput())
	require.NoError(t, err)
	assert.Equal(t, "var-001", stock.VariantID)
	assert.Equal(t, 25, stock.Quantity)

	repo.AssertExpectations(t)
}

func TestInitializeStock_Validation(t *testing.T) {
	svc := NewStockService(new(mockStockRepository), newTestLogger())
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*InitializeStockInput)
	}{
		{"missing variant id", func(in *InitializeStockInput) { in.VariantID = "" }},
		{"missing product id", func(in *InitializeStockInput) { in.ProductID = "" }},
		{"negative quantity", func(in *InitializeStockInput) { in.Quantity = -1 }},
		{"negative threshold", func(in *InitializeStockInput) { in.LowStockThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validStockInput()
			tt.mutate(&input)
			_, err := svc.InitializeStock(ctx, input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestInitializeStock_ZeroQuantityAllowed(t *testing.T) {
	repo := new(mockStockRepository)
	svc := NewStockService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("Initialize", ctx, mock.Anything).Return(nil).Once()

	input := validStockInput()
	input.Quantity = 0

	stock, err := svc.InitializeStock(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 0, stock.Quantity)
}

func TestGetStock_Success(t *testing.T) {
	repo := new(mockStockRepository)
	svc := NewStockService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByVariant", ctx, "var-001").
		Return(&domain.Stock{VariantID: "var-001", Quantity: 10}, nil).Once()

	stock, err := svc.GetStock(ctx, "var-001")
	require.NoError(t, err)
	assert.Equal(t, 10, stock.Quantity)
}

func TestGetStock_NotFound(t *testing.T) {
	repo := new(mockStockRepository)
	svc := NewStockService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByVariant", ctx, "missing").
		Return(nil, apperrors.NotFound("variant", "missing")).Once()

	_, err := svc.GetStock(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetStock_EmptyID(t *testing.T) {
	svc := NewStockService(new(mockStockRepository), newTestLogger())

	_, err := svc.GetStock(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestListLowStock(t *testing.T) {
	repo := new(mockStockRepository)
	svc := NewStockService(repo, newTestLogger())
	ctx := context.Background()

	expected := []domain.Stock{{VariantID: "var-001", Quantity: 2, LowStockThreshold: 5}}
	repo.On("ListLowStock", ctx, 20, 0).Return(expected, 1, nil).Once()

	stocks, total, err := svc.ListLowStock(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, expected, stocks)
	assert.Equal(t, 1, total)
}

func TestListLowStock_NormalizesPagination(t *testing.T) {
	repo := new(mockStockRepository)
	svc := NewStockService(repo, newTestLogger())
	ctx := context.Background()

	// page 0 and per_page 0 fall back to page 1 with the default size,
	// and an oversized per_page is capped.
	repo.On("ListLowStock", ctx, DefaultPerPage, 0).Return([]domain.Stock{}, 0, nil).Once()
	_, _, err := svc.ListLowStock(ctx, 0, 0)
	require.NoError(t, err)

	repo.On("ListLowStock", ctx, MaxPerPage, MaxPerPage).Return([]domain.Stock{}, 0, nil).Once()
	_, _, err = svc.ListLowStock(ctx, 2, 500)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
