// Package customers manages the customer register the ledger sells to.
package customers

import (
	"errors"
	"time"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// Customer is a buyer account. Customers are never deleted; deactivation
// hides them from listings while their sale history stays intact.
type Customer struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Email       string       `json:"email,omitempty"`
	Notes       string       `json:"notes,omitempty"`
	CreditLimit money.Amount `json:"credit_limit"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

var (
	ErrNotFound            = errors.New("customers: customer not found")
	ErrInvalidName         = errors.New("customers: name is required")
	ErrNegativeCreditLimit = errors.New("customers: credit limit must not be negative")
)
