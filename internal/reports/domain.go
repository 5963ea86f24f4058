// Package reports derives read-only summaries from the ledger: per-customer
// balances, payment method totals and current stock levels. Results are
// cached in Redis and invalidated by version bump whenever the ledger
// mutates.
package reports

import (
	"time"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// CustomerSalesRow summarises one customer's activity in a period.
type CustomerSalesRow struct {
	CustomerID   int64        `json:"customer_id"`
	CustomerName string       `json:"customer_name"`
	SaleCount    int          `json:"sale_count"`
	TotalSold    money.Amount `json:"total_sold"`
	TotalPaid    money.Amount `json:"total_paid"`
	Pending      money.Amount `json:"balance_pending"`
}

// MethodTotalsRow aggregates payments by method in a period.
type MethodTotalsRow struct {
	Method string       `json:"method"`
	Count  int          `json:"count"`
	Total  money.Amount `json:"total"`
}

// StockRow is one product's current stock position.
type StockRow struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	StockQty  int    `json:"stock_qty"`
	MinStock  int    `json:"min_stock"`
	Low       bool   `json:"low"`
}

// Period bounds a report. Zero values mean unbounded.
type Period struct {
	From time.Time
	To   time.Time
}
