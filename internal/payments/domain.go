package payments

import (
	"errors"
	"fmt"
	"time"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// Method enumerates accepted payment methods.
type Method string

const (
	MethodCash     Method = "CASH"
	MethodCard     Method = "CARD"
	MethodTransfer Method = "TRANSFER"
)

// Valid reports whether the method is one of the accepted values.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer:
		return true
	}
	return false
}

// Payment is one recorded amount applied against a sale's total.
type Payment struct {
	ID     int64        `json:"id"`
	SaleID int64        `json:"sale_id"`
	Amount money.Amount `json:"amount"`
	Method Method       `json:"method"`
	Note   string       `json:"note,omitempty"`
	PaidAt time.Time    `json:"paid_at"`
}

// ErrInvalidAmount indicates a non-positive payment amount.
var ErrInvalidAmount = errors.New("payments: amount must be positive")

// ErrInvalidMethod indicates an unknown payment method.
var ErrInvalidMethod = errors.New("payments: unknown payment method")

// ErrNotFound indicates an unknown payment id.
var ErrNotFound = errors.New("payments: payment not found")

// ErrOverPayment is the match target for OverPaymentError.
var ErrOverPayment = errors.New("payments: amount exceeds pending balance")

// OverPaymentError reports a payment that would push the paid sum past the
// sale total. Pending carries the balance still owed so callers can render
// a precise message.
type OverPaymentError struct {
	SaleID  int64
	Amount  money.Amount
	Pending money.Amount
}

func (e *OverPaymentError) Error() string {
	return fmt.Sprintf("payments: %s exceeds pending balance %s on sale %d",
		e.Amount, e.Pending, e.SaleID)
}

func (e *OverPaymentError) Unwrap() error { return ErrOverPayment }
