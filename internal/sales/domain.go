// Package sales holds the sale aggregate: a sale header plus the ordered
// line items it exclusively owns. The total is always derived from the line
// subtotals, never edited independently.
package sales

import (
	"errors"
	"time"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// Sale is one customer transaction.
type Sale struct {
	ID         int64        `json:"id"`
	CustomerID int64        `json:"customer_id"`
	CreatedAt  time.Time    `json:"created_at"`
	Total      money.Amount `json:"total"`
	Paid       bool         `json:"paid"`
	Notes      string       `json:"notes,omitempty"`
	Lines      []LineItem   `json:"lines,omitempty"`
}

// LineItem records one product position of a sale. The unit price is a
// snapshot taken at sale time and is immune to later catalog price changes.
// Line items are immutable once created; they only disappear with the sale.
type LineItem struct {
	ID        int64        `json:"id"`
	SaleID    int64        `json:"sale_id"`
	ProductID int64        `json:"product_id"`
	Qty       int          `json:"qty"`
	UnitPrice money.Amount `json:"unit_price"`
	Subtotal  money.Amount `json:"subtotal"`
}

// LineRequest is the caller's view of one requested position.
type LineRequest struct {
	ProductID int64 `json:"product_id"`
	Qty       int   `json:"qty"`
}

// PricedLine is a line request with the product's current unit price resolved.
type PricedLine struct {
	ProductID int64
	Qty       int
	UnitPrice money.Amount
}

// ErrEmptySale indicates a sale request without line items.
var ErrEmptySale = errors.New("sales: sale requires at least one line item")

// ErrInvalidQuantity indicates a non-positive line quantity.
var ErrInvalidQuantity = errors.New("sales: line quantity must be positive")

// ErrSaleAlreadyPaid indicates a void attempt against a paid sale. Payments
// must be voided first; a paid sale is never silently discarded.
var ErrSaleAlreadyPaid = errors.New("sales: paid sale cannot be voided")

// ErrNotFound indicates an unknown sale id.
var ErrNotFound = errors.New("sales: sale not found")

// Build assembles a sale from priced lines, computing each subtotal and the
// running total with money rounding. The returned sale is unpersisted
// (ID zero) and unpaid.
func Build(customerID int64, lines []PricedLine, at time.Time) (Sale, error) {
	if len(lines) == 0 {
		return Sale{}, ErrEmptySale
	}
	sale := Sale{
		CustomerID: customerID,
		CreatedAt:  at,
		Total:      money.Zero,
		Lines:      make([]LineItem, 0, len(lines)),
	}
	for _, line := range lines {
		if line.Qty <= 0 {
			return Sale{}, ErrInvalidQuantity
		}
		subtotal := line.UnitPrice.MulInt(line.Qty)
		sale.Lines = append(sale.Lines, LineItem{
			ProductID: line.ProductID,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			Subtotal:  subtotal,
		})
		sale.Total = sale.Total.Add(subtotal)
	}
	return sale, nil
}

// EnsureVoidable rejects voiding when the sale is paid.
func (s Sale) EnsureVoidable() error {
	if s.Paid {
		return ErrSaleAlreadyPaid
	}
	return nil
}
