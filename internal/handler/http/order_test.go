package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	"github.com/khangtong/tkt-phone-shop-sub000/internal/service"
	apperrors "github.com/khangtong/tkt-phone-shop-sub000/pkg/errors"
)

func setupOrderRouter(orders *mockOrderRepository, lines *mockLineRepository) *chi.Mux {
	logger := testLogger()
	handler := NewOrderHandler(service.NewOrderService(orders, lines, logger), logger)

	r := chi.NewRouter()
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/", handler.CreateOrder)
		r.Get("/{id}", handler.GetOrder)
	})
	return r
}

func TestCreateOrderEndpoint_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(orders, new(mockLineRepository))

	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()

	req := jsonRequest(t, http.MethodPost, "/api/v1/orders", map[string]any{
		"user_id":  uuid.New().String(),
		"currency": "VND",
	})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "pending", data["status"])
	assert.Equal(t, float64(0), data["total_amount"])
}

func TestCreateOrderEndpoint_MissingUserID(t *testing.T) {
	router := setupOrderRouter(new(mockOrderRepository), new(mockLineRepository))

	req := jsonRequest(t, http.MethodPost, "/api/v1/orders", map[string]any{"currency": "VND"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrderEndpoint_Success(t *testing.T) {
	orders := new(mockOrderRepository)
	lines := new(mockLineRepository)
	router := setupOrderRouter(orders, lines)

	orders.On("GetByID", mock.Anything, testOrderID).
		Return(&domain.Order{ID: testOrderID, Status: domain.OrderStatusPending, TotalAmount: 7500}, nil).Once()
	lines.On("ListByOrder", mock.Anything, testOrderID).
		Return([]domain.OrderLine{*storedLine()}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+testOrderID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	data := resp.Data.(map[string]any)
	require.Contains(t, data, "order")
	require.Contains(t, data, "lines")

	orderLines := data["lines"].([]any)
	require.Len(t, orderLines, 1)
	assert.Equal(t, float64(5000), orderLines[0].(map[string]any)["subtotal"])
}

func TestGetOrderEndpoint_NotFound(t *testing.T) {
	orders := new(mockOrderRepository)
	router := setupOrderRouter(orders, new(mockLineRepository))

	orders.On("GetByID", mock.Anything, testOrderID).
		Return(nil, apperrors.NotFound("order", testOrderID)).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+testOrderID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
