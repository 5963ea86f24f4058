package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-dist/meridian-core/internal/money"
)

func TestBuildComputesTotals(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sale, err := Build(7, []PricedLine{
		{ProductID: 1, Qty: 3, UnitPrice: money.MustParse("5.00")},
		{ProductID: 2, Qty: 2, UnitPrice: money.MustParse("12.25")},
	}, at)
	require.NoError(t, err)

	require.Equal(t, int64(7), sale.CustomerID)
	require.Equal(t, at, sale.CreatedAt)
	require.False(t, sale.Paid)
	require.Len(t, sale.Lines, 2)

	require.Equal(t, "15.00", sale.Lines[0].Subtotal.String())
	require.Equal(t, "24.50", sale.Lines[1].Subtotal.String())
	require.Equal(t, "39.50", sale.Total.String())

	// Unit prices are snapshots carried on the line.
	require.Equal(t, "5.00", sale.Lines[0].UnitPrice.String())
}

func TestBuildTotalEqualsSumOfSubtotals(t *testing.T) {
	lines := []PricedLine{
		{ProductID: 1, Qty: 7, UnitPrice: money.MustParse("0.33")},
		{ProductID: 2, Qty: 11, UnitPrice: money.MustParse("1.99")},
		{ProductID: 3, Qty: 1, UnitPrice: money.MustParse("100.01")},
	}
	sale, err := Build(1, lines, time.Now())
	require.NoError(t, err)

	sum := money.Zero
	for _, li := range sale.Lines {
		sum = sum.Add(li.Subtotal)
	}
	require.True(t, sale.Total.Equal(sum))
}

func TestBuildPreservesLineOrder(t *testing.T) {
	sale, err := Build(1, []PricedLine{
		{ProductID: 9, Qty: 1, UnitPrice: money.MustParse("1.00")},
		{ProductID: 3, Qty: 1, UnitPrice: money.MustParse("1.00")},
		{ProductID: 6, Qty: 1, UnitPrice: money.MustParse("1.00")},
	}, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(9), sale.Lines[0].ProductID)
	require.Equal(t, int64(3), sale.Lines[1].ProductID)
	require.Equal(t, int64(6), sale.Lines[2].ProductID)
}

func TestBuildEmptySale(t *testing.T) {
	_, err := Build(1, nil, time.Now())
	require.ErrorIs(t, err, ErrEmptySale)
}

func TestBuildRejectsNonPositiveQty(t *testing.T) {
	_, err := Build(1, []PricedLine{{ProductID: 1, Qty: 0, UnitPrice: money.MustParse("5.00")}}, time.Now())
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestEnsureVoidable(t *testing.T) {
	require.NoError(t, Sale{Paid: false}.EnsureVoidable())
	require.ErrorIs(t, Sale{Paid: true}.EnsureVoidable(), ErrSaleAlreadyPaid)
}
