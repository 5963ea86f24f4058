// Package catalog holds the master data of the distributor: the product
// list with pricing and stock thresholds, and the suppliers products are
// bought from. Stock quantities live here but are only ever mutated by the
// ledger.
package catalog

import (
	"errors"
	"time"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// Product is one sellable item.
type Product struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	UnitPrice   money.Amount `json:"unit_price"`
	StockQty    int          `json:"stock_qty"`
	MinStock    int          `json:"min_stock"`
	SupplierID  int64        `json:"supplier_id,omitempty"`
	IsActive    bool         `json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// LowOnStock reports whether the product is at or below its threshold.
func (p Product) LowOnStock() bool {
	return p.IsActive && p.StockQty <= p.MinStock
}

// Supplier is a party products are purchased from. Like products, suppliers
// deactivate instead of deleting so purchase history keeps its references.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilters narrows product listings.
type ListFilters struct {
	Search     string
	Active     *bool
	SupplierID int64
	Limit      int
	Offset     int
}

var (
	ErrProductNotFound  = errors.New("catalog: product not found")
	ErrSupplierNotFound = errors.New("catalog: supplier not found")
	ErrInvalidName      = errors.New("catalog: name is required")
	ErrNegativePrice    = errors.New("catalog: unit price must not be negative")
	ErrNegativeMinStock = errors.New("catalog: min stock must not be negative")
)
