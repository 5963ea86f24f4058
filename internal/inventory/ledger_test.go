package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	stock     map[int64]int
	movements []Movement
	nextID    int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{stock: make(map[int64]int)}
}

func (s *memoryStore) GetStockForUpdate(ctx context.Context, productID int64) (int, error) {
	qty, ok := s.stock[productID]
	if !ok {
		return 0, ErrProductNotFound
	}
	return qty, nil
}

func (s *memoryStore) UpdateStock(ctx context.Context, productID int64, qty int) error {
	if _, ok := s.stock[productID]; !ok {
		return ErrProductNotFound
	}
	s.stock[productID] = qty
	return nil
}

func (s *memoryStore) InsertMovement(ctx context.Context, m Movement) (int64, error) {
	s.nextID++
	m.ID = s.nextID
	s.movements = append(s.movements, m)
	return m.ID, nil
}

func TestReserve(t *testing.T) {
	store := newMemoryStore()
	store.stock[1] = 10
	ledger := NewLedger()
	ctx := context.Background()

	newQty, err := ledger.Reserve(ctx, store, 1, 3, 42)
	require.NoError(t, err)
	require.Equal(t, 7, newQty)
	require.Equal(t, 7, store.stock[1])

	require.Len(t, store.movements, 1)
	m := store.movements[0]
	require.Equal(t, MovementTypeReserve, m.Type)
	require.Equal(t, -3, m.Qty)
	require.Equal(t, 7, m.Balance)
	require.Equal(t, int64(42), m.RefSaleID)
	require.NotEmpty(t, m.Code)
	require.False(t, m.PostedAt.IsZero())
}

func TestReserveInsufficientStock(t *testing.T) {
	store := newMemoryStore()
	store.stock[2] = 2
	ledger := NewLedger()

	_, err := ledger.Reserve(context.Background(), store, 2, 5, 0)
	require.ErrorIs(t, err, ErrInsufficientStock)

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, int64(2), insufficient.ProductID)
	require.Equal(t, 5, insufficient.Requested)
	require.Equal(t, 2, insufficient.Available)

	require.Equal(t, 2, store.stock[2], "stock untouched on failure")
	require.Empty(t, store.movements)
}

func TestReserveExactStock(t *testing.T) {
	store := newMemoryStore()
	store.stock[1] = 5
	ledger := NewLedger()

	newQty, err := ledger.Reserve(context.Background(), store, 1, 5, 0)
	require.NoError(t, err)
	require.Equal(t, 0, newQty)
}

func TestReserveRejectsNonPositiveQty(t *testing.T) {
	store := newMemoryStore()
	store.stock[1] = 5
	ledger := NewLedger()

	_, err := ledger.Reserve(context.Background(), store, 1, 0, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	_, err = ledger.Reserve(context.Background(), store, 1, -1, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestReserveUnknownProduct(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Reserve(context.Background(), newMemoryStore(), 99, 1, 0)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestRestore(t *testing.T) {
	store := newMemoryStore()
	store.stock[1] = 7
	ledger := NewLedger()

	newQty, err := ledger.Restore(context.Background(), store, 1, 3, 42)
	require.NoError(t, err)
	require.Equal(t, 10, newQty)
	require.Equal(t, MovementTypeRestore, store.movements[0].Type)
	require.Equal(t, 3, store.movements[0].Qty)
}

func TestRestoreRejectsNonPositiveQty(t *testing.T) {
	store := newMemoryStore()
	store.stock[1] = 7
	ledger := NewLedger()

	_, err := ledger.Restore(context.Background(), store, 1, 0, 0)
	require.ErrorIs(t, err, ErrInvalidQuantity)
	require.Equal(t, 7, store.stock[1])
}

func TestAdjust(t *testing.T) {
	store := newMemoryStore()
	store.stock[1] = 4
	ledger := NewLedger()

	newQty, err := ledger.Adjust(context.Background(), store, 1, -4, "breakage")
	require.NoError(t, err)
	require.Equal(t, 0, newQty)

	m := store.movements[0]
	require.Equal(t, MovementTypeAdjust, m.Type)
	require.Equal(t, "breakage", m.Reason)
	require.Equal(t, -4, m.Qty)
}

func TestAdjustNegativeStockRejected(t *testing.T) {
	store := newMemoryStore()
	store.stock[1] = 4
	ledger := NewLedger()

	_, err := ledger.Adjust(context.Background(), store, 1, -5, "miscount")
	require.ErrorIs(t, err, ErrNegativeStock)

	var negative *NegativeStockError
	require.ErrorAs(t, err, &negative)
	require.Equal(t, 4, negative.Current)
	require.Equal(t, -5, negative.Delta)

	require.Equal(t, 4, store.stock[1])
	require.Empty(t, store.movements)
}

func TestAdjustZeroDeltaIsNoop(t *testing.T) {
	store := newMemoryStore()
	store.stock[1] = 4
	ledger := NewLedger()

	newQty, err := ledger.Adjust(context.Background(), store, 1, 0, "recount confirmed")
	require.NoError(t, err)
	require.Equal(t, 4, newQty)
	require.Equal(t, 4, store.stock[1])
	require.Empty(t, store.movements)
}
