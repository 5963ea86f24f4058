package reports

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-dist/meridian-core/internal/platform/httpx"
)

// Handler manages report endpoints. Every report supports format=csv.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/sales-by-customer", h.salesByCustomer)
	r.Get("/payments-by-method", h.paymentsByMethod)
	r.Get("/stock", h.stock)
}

func (h *Handler) salesByCustomer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.service.SalesByCustomer(r.Context(), ParsePeriod(q.Get("from"), q.Get("to")))
	if err != nil {
		h.fail(w, "sales by customer", err)
		return
	}
	if q.Get("format") == "csv" {
		csvHeaders(w, "sales_by_customer.csv")
		if err := WriteSalesByCustomerCSV(w, rows); err != nil {
			h.logger.Error("write csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) paymentsByMethod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.service.PaymentsByMethod(r.Context(), ParsePeriod(q.Get("from"), q.Get("to")))
	if err != nil {
		h.fail(w, "payments by method", err)
		return
	}
	if q.Get("format") == "csv" {
		csvHeaders(w, "payments_by_method.csv")
		if err := WritePaymentsByMethodCSV(w, rows); err != nil {
			h.logger.Error("write csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) stock(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.StockLevels(r.Context())
	if err != nil {
		h.fail(w, "stock levels", err)
		return
	}
	if r.URL.Query().Get("format") == "csv" {
		csvHeaders(w, "stock.csv")
		if err := WriteStockCSV(w, rows); err != nil {
			h.logger.Error("write csv", slog.Any("error", err))
		}
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) fail(w http.ResponseWriter, report string, err error) {
	h.logger.Error("report failed", slog.String("report", report), slog.Any("error", err))
	httpx.RespondError(w, err)
}

func csvHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
}
