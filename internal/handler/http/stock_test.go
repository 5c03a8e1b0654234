package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	"github.com/khangtong/tkt-phone-shop-sub000/internal/service"
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

func setupStockRouter(repo *mockStockRepository) *chi.Mux {
	logger := testLogger()
	handler := NewStockHandler(service.NewStockService(repo, logger), logger)

	r := chi.NewRouter()
	r.Route("/api/v1/stock", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Put("/", handler.InitializeStock)
		r.Get("/low", handler.ListLowStock)
		r.Get("/{variantID}", handler.GetStock)
	})
	return r
}

func TestInitializeStockEndpoint_Success(t *testing.T) {
	repo := new(mockStockRepository)
	router := setupStockRouter(repo)

	repo.On("Initialize", mock.Anything, mock.AnythingOfType("*domain.Stock")).Return(nil).Once()

	req := jsonRequest(t, http.MethodPut, "/api/v1/stock", map[string]any{
		"variant_id":          "var-001",
		"product_id":          "prod-001",
		"quantity":            25,
		"low_stock_threshold": 5,
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(25), data["quantity"])
}

func TestInitializeStockEndpoint_NegativeQuantity(t *testing.T) {
	router := setupStockRouter(new(mockStockRepository))

	req := jsonRequest(t, http.MethodPut, "/api/v1/stock", map[string]any{
		"variant_id": "var-001",
		"product_id": "prod-001",
		"quantity":   -1,
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStockEndpoint_Success(t *testing.T) {
	repo := new(mockStockRepository)
	router := setupStockRouter(repo)

	repo.On("GetByVariant", mock.Anything, "var-001").
		Return(&domain.Stock{VariantID: "var-001", Quantity: 10}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/var-001", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(10), data["quantity"])
}

func TestGetStockEndpoint_NotFound(t *testing.T) {
	repo := new(mockStockRepository)
	router := setupStockRouter(repo)

	repo.On("GetByVariant", mock.Anything, "missing").
		Return(nil, apperrors.NotFound("variant", "missing")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListLowStockEndpoint(t *testing.T) {
	repo := new(mockStockRepository)
	router := setupStockRouter(repo)

	repo.On("ListLowStock", mock.Anything, 20, 0).
		Return([]domain.Stock{{VariantID: "var-001", Quantity: 2, LowStockThreshold: 5}}, 1, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/low", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []domain.Stock `json:"data"`
		TotalCount int            `json:"total_count"`
		Page       int            `json:"page"`
		PerPage    int            `json:"per_page"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.PerPage)
}

func TestListLowStockEndpoint_ClampsPerPage(t *testing.T) {
	repo := new(mockStockRepository)
	router := setupStockRouter(repo)

	repo.On("ListLowStock", mock.Anything, 100, 0).
		Return([]domain.Stock{}, 0, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stock/low?per_page=500", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	repo.AssertExpectations(t)
}
