// Package ledger coordinates the cross-entity operations of the sales and
// payment ledger. It is the only component that touches more than one of
// {inventory, sale aggregate, payment ledger} within a single externally
// visible operation, which keeps the atomicity boundary in exactly one place.
package ledger

import (
	"errors"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// ProductInfo is the slice of the catalog the coordinator needs when
// resolving a sale line: the current unit price to snapshot.
type ProductInfo struct {
	ID        int64
	Name      string
	UnitPrice money.Amount
	Active    bool
}

// CustomerBalance is derived on demand from sale and payment records. It is
// never persisted, so it cannot drift.
type CustomerBalance struct {
	CustomerID int64        `json:"customer_id"`
	TotalSold  money.Amount `json:"total_sold"`
	TotalPaid  money.Amount `json:"total_paid"`
	Pending    money.Amount `json:"balance_pending"`
}

// SaleFilter narrows sale listings.
type SaleFilter struct {
	CustomerID int64
	Paid       *bool
	Limit      int
}

var (
	// ErrCustomerNotFound indicates an unknown customer id.
	ErrCustomerNotFound = errors.New("ledger: customer not found")
	// ErrSaleHasPayments rejects voiding a sale that still has payments on
	// record. Recorded income is never discarded implicitly; the payments
	// must be voided one by one first.
	ErrSaleHasPayments = errors.New("ledger: sale has recorded payments, void them first")
)
