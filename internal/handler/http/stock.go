package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/service"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/httputil"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/validator"
)

// StockHandler handles HTTP requests for stock endpoints.
type StockHandler struct {
	service *service.StockService
	logger  *slog.Logger
}

// NewStockHandler creates a new stock HTTP handler.
func NewStockHandler(svc *service.StockService, logger *slog.Logger) *StockHandler {
	return &StockHandler{
		service: svc,
		logger:  logger,
	}
}

// InitializeStockRequest is the JSON request body for seeding variant stock.
type InitializeStockRequest struct {
	VariantID         string `json:"variant_id" validate:"required"`
	ProductID         string `json:"product_id" validate:"required"`
	Quantity          int    `json:"quantity" validate:"gte=0"`
	LowStockThreshold int    `json:"low_stock_threshold" validate:"gte=0"`
}

// InitializeStock handles PUT /api/v1/stock
func (h *StockHandler) InitializeStock(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req InitializeStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	stock, err := h.service.InitializeStock(r.Context(), service.InitializeStockInput{
		VariantID:         req.VariantID,
		ProductID:         req.ProductID,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stock})
}

// GetStock handles GET /api/v1/stock/{variantID}
func (h *StockHandler) GetStock(w http.ResponseWriter, r *http.Request) {
	variantID := chi.URLParam(r, "variantID")

	stock, err := h.service.GetStock(r.Context(), variantID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stock})
}

// ListLowStock handles GET /api/v1/stock/low?page=1&per_page=20
func (h *StockHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	page, perPage = service.NormalizePagination(page, perPage)

	stocks, total, err := h.service.ListLowStock(r.Context(), page, perPage)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.NewPaginatedResponse(stocks, total, page, perPage))
}
