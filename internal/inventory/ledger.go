package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TxStore is the slice of a storage transaction the ledger needs. The stock
// row is expected to be locked for the remainder of the transaction once
// GetStockForUpdate returns.
type TxStore interface {
	GetStockForUpdate(ctx context.Context, productID int64) (int, error)
	UpdateStock(ctx context.Context, productID int64, qty int) error
	InsertMovement(ctx context.Context, m Movement) (int64, error)
}

// Ledger is the only authorized mutator of product stock. Every mutation is
// applied against a caller-owned transaction and leaves a movement record.
type Ledger struct {
	clock func() time.Time
}

// NewLedger constructs a Ledger.
func NewLedger() *Ledger {
	return &Ledger{clock: func() time.Time { return time.Now().UTC() }}
}

// Reserve decrements stock by qty to reflect committed sale demand and
// returns the new quantity. It fails with InsufficientStockError when qty
// exceeds the available stock, leaving the row untouched.
func (l *Ledger) Reserve(ctx context.Context, store TxStore, productID int64, qty int, refSaleID int64) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	current, err := store.GetStockForUpdate(ctx, productID)
	if err != nil {
		return 0, err
	}
	if qty > current {
		return 0, &InsufficientStockError{ProductID: productID, Requested: qty, Available: current}
	}
	newQty := current - qty
	if err := l.post(ctx, store, Movement{
		Type:      MovementTypeReserve,
		ProductID: productID,
		Qty:       -qty,
		Balance:   newQty,
		RefSaleID: refSaleID,
	}); err != nil {
		return 0, err
	}
	return newQty, nil
}

// Restore increments stock by qty unconditionally, reversing a prior
// reservation. qty must be positive.
func (l *Ledger) Restore(ctx context.Context, store TxStore, productID int64, qty int, refSaleID int64) (int, error) {
	if qty <= 0 {
		return 0, ErrInvalidQuantity
	}
	current, err := store.GetStockForUpdate(ctx, productID)
	if err != nil {
		return 0, err
	}
	newQty := current + qty
	if err := l.post(ctx, store, Movement{
		Type:      MovementTypeRestore,
		ProductID: productID,
		Qty:       qty,
		Balance:   newQty,
		RefSaleID: refSaleID,
	}); err != nil {
		return 0, err
	}
	return newQty, nil
}

// Adjust applies a signed manual correction. The reason is stored on the
// movement record for audit but has no semantic effect. A zero delta is a
// no-op that posts no movement; an adjustment that would leave stock
// negative fails with NegativeStockError.
func (l *Ledger) Adjust(ctx context.Context, store TxStore, productID int64, delta int, reason string) (int, error) {
	current, err := store.GetStockForUpdate(ctx, productID)
	if err != nil {
		return 0, err
	}
	if delta == 0 {
		return current, nil
	}
	newQty := current + delta
	if newQty < 0 {
		return 0, &NegativeStockError{ProductID: productID, Current: current, Delta: delta}
	}
	if err := l.post(ctx, store, Movement{
		Type:      MovementTypeAdjust,
		ProductID: productID,
		Qty:       delta,
		Balance:   newQty,
		Reason:    reason,
	}); err != nil {
		return 0, err
	}
	return newQty, nil
}

func (l *Ledger) post(ctx context.Context, store TxStore, m Movement) error {
	m.Code = fmt.Sprintf("MV-%s", uuid.NewString())
	m.PostedAt = l.clock()
	if err := store.UpdateStock(ctx, m.ProductID, m.Balance); err != nil {
		return err
	}
	if _, err := store.InsertMovement(ctx, m); err != nil {
		return err
	}
	return nil
}
