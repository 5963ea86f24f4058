package payments

import (
	"context"
	"time"

	"github.com/meridian-dist/meridian-core/internal/money"
	"github.com/meridian-dist/meridian-core/internal/sales"
)

// TxStore is the slice of a storage transaction the ledger needs.
type TxStore interface {
	SumPayments(ctx context.Context, saleID int64) (money.Amount, error)
	InsertPayment(ctx context.Context, p Payment) (int64, error)
	GetPaymentForUpdate(ctx context.Context, paymentID int64) (Payment, error)
	DeletePayment(ctx context.Context, paymentID int64) error
	SetSalePaid(ctx context.Context, saleID int64, paid bool) error
}

// Ledger records payments against sales and derives the sale's paid state.
// It is the only component allowed to flip Sale.Paid after creation.
type Ledger struct {
	clock func() time.Time
}

// NewLedger constructs a Ledger.
func NewLedger() *Ledger {
	return &Ledger{clock: func() time.Time { return time.Now().UTC() }}
}

// Record creates a payment against the sale. The comparison against the
// pending balance runs at full decimal precision with no tolerance; a
// payment that would exceed the sale total fails with OverPaymentError and
// nothing is written. When the cumulative paid sum settles the total
// exactly, the sale's paid flag flips false to true. The flag never
// transitions true to false here.
func (l *Ledger) Record(ctx context.Context, store TxStore, sale sales.Sale, amount money.Amount, method Method, note string) (Payment, error) {
	if !amount.IsPositive() {
		return Payment{}, ErrInvalidAmount
	}
	if !method.Valid() {
		return Payment{}, ErrInvalidMethod
	}
	previouslyPaid, err := store.SumPayments(ctx, sale.ID)
	if err != nil {
		return Payment{}, err
	}
	newTotal := previouslyPaid.Add(amount)
	if newTotal.GreaterThan(sale.Total) {
		return Payment{}, &OverPaymentError{
			SaleID:  sale.ID,
			Amount:  amount,
			Pending: sale.Total.Sub(previouslyPaid),
		}
	}
	payment := Payment{
		SaleID: sale.ID,
		Amount: amount,
		Method: method,
		Note:   note,
		PaidAt: l.clock(),
	}
	id, err := store.InsertPayment(ctx, payment)
	if err != nil {
		return Payment{}, err
	}
	payment.ID = id
	if newTotal.Equal(sale.Total) && !sale.Paid {
		if err := store.SetSalePaid(ctx, sale.ID, true); err != nil {
			return Payment{}, err
		}
	}
	return payment, nil
}

// Void deletes the payment and unconditionally resets the owning sale's
// paid flag to false, even when the remaining payments would still cover
// the total. The pending balance reported by reads is recomputed from the
// surviving payments, so the flag is the only thing simplified here.
func (l *Ledger) Void(ctx context.Context, store TxStore, paymentID int64) (Payment, error) {
	payment, err := store.GetPaymentForUpdate(ctx, paymentID)
	if err != nil {
		return Payment{}, err
	}
	if err := store.DeletePayment(ctx, paymentID); err != nil {
		return Payment{}, err
	}
	if err := store.SetSalePaid(ctx, payment.SaleID, false); err != nil {
		return Payment{}, err
	}
	return payment, nil
}
