package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/khangtong/tkt-phone-shop-sub000/internal/domain"
	"github.com/khangtong/tkt-phone-shop-sub000/internal/service"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/httputil"
	"github.com/khangtong/tkt-phone-shop-sub000/pkg/validator"
)

// LineHandler handles HTTP requests for order line endpoints.
type LineHandler struct {
	service *service.LineService
	logger  *slog.Logger
}

// NewLineHandler creates a new line HTTP handler.
func NewLineHandler(svc *service.LineService, logger *slog.Logger) *LineHandler {
	return &LineHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request / Response DTOs ---

// CreateLineRequest is the JSON request body for adding a line to an order.
type CreateLineRequest struct {
	ProductID          string `json:"product_id" validate:"required"`
	VariantID          string `json:"variant_id" validate:"required"`
	Quantity           int    `json:"quantity" validate:"required,gte=1"`
	PriceAtPurchase    int64  `json:"price_at_purchase" validate:"gte=0"`
	DiscountAtPurchase int64  `json:"discount_at_purchase" validate:"gte=0"`
}

// UpdateLineRequest is the JSON request body for updating a line. Only the
// quantity is mutable; the optional fields let the service reject attempts to
// change them rather than silently dropping them.
type UpdateLineRequest struct {
	Quantity           int     `json:"quantity" validate:"required,gte=1"`
	OrderID            *string `json:"order_id"`
	ProductID          *string `json:"product_id"`
	VariantID          *string `json:"variant_id"`
	PriceAtPurchase    *int64  `json:"price_at_purchase"`
	DiscountAtPurchase *int64  `json:"discount_at_purchase"`
}

// LineView is the JSON shape of an order line on read, enriched with the
// subtotal computed from the stored price, discount, and quantity.
type LineView struct {
	domain.OrderLine
	Subtotal int64 `json:"subtotal"`
}

func newLineView(line domain.OrderLine) LineView {
	return LineView{OrderLine: line, Subtotal: line.Subtotal()}
}

func newLineViews(lines []domain.OrderLine) []LineView {
	views := make([]LineView, 0, len(lines))
	for _, line := range lines {
		views = append(views, newLineView(line))
	}
	return views
}

// LineResponse is the JSON response for line mutations, carrying the
// recomputed order total alongside the line.
type LineResponse struct {
	Line       any   `json:"line,omitempty"`
	OrderTotal int64 `json:"order_total"`
}

// --- Handlers ---

// CreateLine handles POST /api/v1/orders/{id}/lines
func (h *LineHandler) CreateLine(w http.ResponseWriter, r *http.Request) {
	orderID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateLineRequest
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

	input := service.CreateLineInput{
		OrderID:            orderID.String(),
		ProductID:          req.ProductID,
		VariantID:          req.VariantID,
		Quantity:           req.Quantity,
		PriceAtPurchase:    req.PriceAtPurchase,
		DiscountAtPurchase: req.DiscountAtPurchase,
	}

	line, total, err := h.service.CreateLine(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: LineResponse{Line: newLineView(*line), OrderTotal: total},
	})
}

// ListLines handles GET /api/v1/orders/{id}/lines
func (h *LineHandler) ListLines(w http.ResponseWriter, r *http.Request) {
	orderID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	lines, err := h.service.ListLines(r.Context(), orderID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newLineViews(lines)})
}

// GetLine handles GET /api/v1/lines/{id}
func (h *LineHandler) GetLine(w http.ResponseWriter, r *http.Request) {
	lineID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	line, err := h.service.GetLine(r.Context(), lineID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newLineView(*line)})
}

// UpdateLine handles PUT /api/v1/lines/{id}
func (h *LineHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	lineID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateLineRequest
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

	input := service.UpdateLineInput{
		Quantity:           req.Quantity,
		OrderID:            req.OrderID,
		ProductID:          req.ProductID,
		VariantID:          req.VariantID,
		PriceAtPurchase:    req.PriceAtPurchase,
		DiscountAtPurchase: req.DiscountAtPurchase,
	}

	line, total, err := h.service.UpdateLine(r.Context(), lineID.String(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: LineResponse{Line: newLineView(*line), OrderTotal: total},
	})
}

// DeleteLine handles DELETE /api/v1/lines/{id}
func (h *LineHandler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	lineID, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	total, err := h.service.DeleteLine(r.Context(), lineID.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: LineResponse{OrderTotal: total},
	})
}
