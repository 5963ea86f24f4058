package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-dist/meridian-core/internal/money"
	"github.com/meridian-dist/meridian-core/internal/sales"
)

type memoryStore struct {
	payments map[int64]Payment
	paidFlag map[int64]bool
	nextID   int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		payments: make(map[int64]Payment),
		paidFlag: make(map[int64]bool),
	}
}

func (s *memoryStore) SumPayments(ctx context.Context, saleID int64) (money.Amount, error) {
	sum := money.Zero
	for _, p := range s.payments {
		if p.SaleID == saleID {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, nil
}

func (s *memoryStore) InsertPayment(ctx context.Context, p Payment) (int64, error) {
	s.nextID++
	p.ID = s.nextID
	s.payments[p.ID] = p
	return p.ID, nil
}

func (s *memoryStore) GetPaymentForUpdate(ctx context.Context, paymentID int64) (Payment, error) {
	p, ok := s.payments[paymentID]
	if !ok {
		return Payment{}, ErrNotFound
	}
	return p, nil
}

func (s *memoryStore) DeletePayment(ctx context.Context, paymentID int64) error {
	if _, ok := s.payments[paymentID]; !ok {
		return ErrNotFound
	}
	delete(s.payments, paymentID)
	return nil
}

func (s *memoryStore) SetSalePaid(ctx context.Context, saleID int64, paid bool) error {
	s.paidFlag[saleID] = paid
	return nil
}

func testSale(id int64, total string) sales.Sale {
	return sales.Sale{ID: id, CustomerID: 1, Total: money.MustParse(total), CreatedAt: time.Now()}
}

func TestRecordPartialPayment(t *testing.T) {
	store := newMemoryStore()
	ledger := NewLedger()
	ctx := context.Background()

	p, err := ledger.Record(ctx, store, testSale(1, "20.00"), money.MustParse("12.00"), MethodCash, "")
	require.NoError(t, err)
	require.NotZero(t, p.ID)
	require.Equal(t, "12.00", p.Amount.String())
	require.False(t, store.paidFlag[1], "partial payment leaves paid=false")
}

func TestRecordSettlesExactly(t *testing.T) {
	store := newMemoryStore()
	ledger := NewLedger()
	ctx := context.Background()
	sale := testSale(1, "20.00")

	_, err := ledger.Record(ctx, store, sale, money.MustParse("12.00"), MethodCash, "")
	require.NoError(t, err)
	_, err = ledger.Record(ctx, store, sale, money.MustParse("8.00"), MethodTransfer, "rest")
	require.NoError(t, err)
	require.True(t, store.paidFlag[1])
}

func TestRecordOverPayment(t *testing.T) {
	store := newMemoryStore()
	ledger := NewLedger()
	ctx := context.Background()
	sale := testSale(1, "20.00")

	_, err := ledger.Record(ctx, store, sale, money.MustParse("12.00"), MethodCash, "")
	require.NoError(t, err)

	_, err = ledger.Record(ctx, store, sale, money.MustParse("8.01"), MethodCash, "")
	require.ErrorIs(t, err, ErrOverPayment)

	var over *OverPaymentError
	require.ErrorAs(t, err, &over)
	require.Equal(t, int64(1), over.SaleID)
	require.Equal(t, "8.00", over.Pending.String())

	require.Len(t, store.payments, 1, "no payment created on rejection")
	require.False(t, store.paidFlag[1])
}

func TestRecordExceedingTotalOutright(t *testing.T) {
	store := newMemoryStore()
	ledger := NewLedger()

	_, err := ledger.Record(context.Background(), store, testSale(1, "20.00"), money.MustParse("20.01"), MethodCard, "")
	require.ErrorIs(t, err, ErrOverPayment)
	require.Empty(t, store.payments)
}

func TestRecordRejectsNonPositiveAmount(t *testing.T) {
	store := newMemoryStore()
	ledger := NewLedger()

	_, err := ledger.Record(context.Background(), store, testSale(1, "20.00"), money.Zero, MethodCash, "")
	require.ErrorIs(t, err, ErrInvalidAmount)

	_, err = ledger.Record(context.Background(), store, testSale(1, "20.00"), money.MustParse("-1.00"), MethodCash, "")
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordRejectsUnknownMethod(t *testing.T) {
	store := newMemoryStore()
	ledger := NewLedger()

	_, err := ledger.Record(context.Background(), store, testSale(1, "20.00"), money.MustParse("1.00"), Method("BARTER"), "")
	require.ErrorIs(t, err, ErrInvalidMethod)
}

func TestVoidResetsPaidUnconditionally(t *testing.T) {
	store := newMemoryStore()
	ledger := NewLedger()
	ctx := context.Background()
	sale := testSale(1, "20.00")

	first, err := ledger.Record(ctx, store, sale, money.MustParse("12.00"), MethodCash, "")
	require.NoError(t, err)
	second, err := ledger.Record(ctx, store, sale, money.MustParse("8.00"), MethodCash, "")
	require.NoError(t, err)
	require.True(t, store.paidFlag[1])

	voided, err := ledger.Void(ctx, store, second.ID)
	require.NoError(t, err)
	require.Equal(t, second.ID, voided.ID)
	require.False(t, store.paidFlag[1])

	// The first payment survives; pending is recomputed from it on read.
	remaining, err := store.SumPayments(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "12.00", remaining.String())
	require.Contains(t, store.payments, first.ID)
}

func TestVoidUnknownPayment(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Void(context.Background(), newMemoryStore(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}
