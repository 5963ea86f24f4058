package ledger

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-dist/meridian-core/internal/inventory"
	"github.com/meridian-dist/meridian-core/internal/money"
	"github.com/meridian-dist/meridian-core/internal/payments"
	"github.com/meridian-dist/meridian-core/internal/platform/httpx"
	"github.com/meridian-dist/meridian-core/internal/sales"
)

// Handler manages ledger endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	movements *inventory.Service
	validate  *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, movements *inventory.Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		movements: movements,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers ledger routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/sales", h.createSale)
	r.Get("/sales", h.listSales)
	r.Get("/sales/{id}", h.getSale)
	r.Delete("/sales/{id}", h.voidSale)
	r.Get("/sales/{id}/payments", h.listSalePayments)

	r.Post("/payments", h.createPayment)
	r.Delete("/payments/{id}", h.voidPayment)

	r.Post("/stock/adjust", h.adjustStock)
	r.Get("/stock/movements", h.listMovements)

	r.Get("/customers/{id}/balance", h.customerBalance)
}

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	var req CreateSaleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	lines := make([]sales.LineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		lines = append(lines, sales.LineRequest{ProductID: line.ProductID, Qty: line.Qty})
	}

	sale, err := h.service.RecordSale(r.Context(), req.CustomerID, lines)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	var filter SaleFilter
	if v := r.URL.Query().Get("customer_id"); v != "" {
		filter.CustomerID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := r.URL.Query().Get("paid"); v != "" {
		paid := v == "true"
		filter.Paid = &paid
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	list, err := h.service.ListSales(r.Context(), filter)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	sale, err := h.service.GetSale(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, sale)
}

func (h *Handler) voidSale(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.VoidSale(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSalePayments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	list, err := h.service.ListSalePayments(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) createPayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	amount, err := money.Parse(req.Amount)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Amount", err.Error())
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), req.SaleID, amount, payments.Method(req.Method), req.Note)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) voidPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.VoidPayment(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request) {
	var req AdjustStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	newQty, err := h.service.AdjustStock(r.Context(), req.ProductID, req.Delta, req.Reason)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, AdjustStockResponse{ProductID: req.ProductID, NewQty: newQty})
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	var filter inventory.MovementFilter
	q := r.URL.Query()
	if v := q.Get("product_id"); v != "" {
		filter.ProductID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := q.Get("type"); v != "" {
		filter.Type = inventory.MovementType(v)
	}
	if v := q.Get("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.From = t
		}
	}
	if v := q.Get("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.To = t
		}
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}

	list, err := h.movements.ListMovements(r.Context(), filter)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) customerBalance(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	balance, err := h.service.CustomerBalance(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, balance)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Invalid ID", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// respondError translates ledger domain errors into problem responses.
// Conflicts carry the quantities the caller needs to correct the request.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrCustomerNotFound),
		errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, sales.ErrNotFound),
		errors.Is(err, payments.ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, sales.ErrEmptySale),
		errors.Is(err, sales.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, payments.ErrInvalidAmount),
		errors.Is(err, payments.ErrInvalidMethod),
		errors.Is(err, money.ErrInvalidAmount):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, inventory.ErrNegativeStock),
		errors.Is(err, payments.ErrOverPayment),
		errors.Is(err, sales.ErrSaleAlreadyPaid),
		errors.Is(err, ErrSaleHasPayments):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("ledger request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		httpx.RespondError(w, err)
	}
}
