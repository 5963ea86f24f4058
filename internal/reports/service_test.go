package reports

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-dist/meridian-core/internal/money"
)

type mockRepo struct {
	customerRows  []CustomerSalesRow
	customerCalls int
	methodRows    []MethodTotalsRow
	methodCalls   int
	stockRows     []StockRow
	stockCalls    int
}

func (m *mockRepo) SalesByCustomer(_ context.Context, _ Period) ([]CustomerSalesRow, error) {
	m.customerCalls++
	return m.customerRows, nil
}

func (m *mockRepo) PaymentsByMethod(_ context.Context, _ Period) ([]MethodTotalsRow, error) {
	m.methodCalls++
	return m.methodRows, nil
}

func (m *mockRepo) StockLevels(_ context.Context) ([]StockRow, error) {
	m.stockCalls++
	return m.stockRows, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(repo, NewCache(client, time.Minute))
}

func TestSalesByCustomerCached(t *testing.T) {
	repo := &mockRepo{customerRows: []CustomerSalesRow{{
		CustomerID:   1,
		CustomerName: "Tienda La Esquina",
		SaleCount:    2,
		TotalSold:    money.MustParse("35.00"),
		TotalPaid:    money.MustParse("20.00"),
		Pending:      money.MustParse("15.00"),
	}}}
	svc := newTestService(t, repo)

	first, err := svc.SalesByCustomer(context.Background(), Period{})
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, "15.00", first[0].Pending.String())

	second, err := svc.SalesByCustomer(context.Background(), Period{})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.customerCalls)
}

func TestInvalidateBumpsVersion(t *testing.T) {
	repo := &mockRepo{methodRows: []MethodTotalsRow{{Method: "CASH", Count: 3, Total: money.MustParse("45.00")}}}
	svc := newTestService(t, repo)

	_, err := svc.PaymentsByMethod(context.Background(), Period{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.methodCalls)

	require.NoError(t, svc.Invalidate(context.Background()))

	_, err = svc.PaymentsByMethod(context.Background(), Period{})
	require.NoError(t, err)
	require.Equal(t, 2, repo.methodCalls)
}

func TestDistinctPeriodsUseDistinctKeys(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestService(t, repo)

	_, err := svc.SalesByCustomer(context.Background(), Period{})
	require.NoError(t, err)
	_, err = svc.SalesByCustomer(context.Background(), Period{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, 2, repo.customerCalls)
}

type blockingRepo struct {
	mockRepo
	mu      sync.Mutex
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRepo) StockLevels(ctx context.Context) ([]StockRow, error) {
	b.mu.Lock()
	b.mockRepo.stockCalls++
	b.mu.Unlock()
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.mockRepo.stockRows, nil
}

func (b *blockingRepo) calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mockRepo.stockCalls
}

func TestNilCacheCollapsesConcurrentRequests(t *testing.T) {
	repo := &blockingRepo{
		mockRepo: mockRepo{stockRows: []StockRow{{ProductID: 1, Name: "Cola 12oz", StockQty: 3, MinStock: 6, Low: true}}},
		entered:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	svc := NewService(repo, nil)

	const callers = 4
	var wg sync.WaitGroup
	results := make([][]StockRow, callers)
	errs := make([]error, callers)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = svc.StockLevels(context.Background())
	}()
	<-repo.entered

	// the loader is in flight; these callers must join it, not start their own
	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.StockLevels(context.Background())
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		require.Len(t, results[i], 1)
		require.True(t, results[i][0].Low)
	}
	require.Equal(t, 1, repo.calls())
}

func TestNilCacheDegradesToLoader(t *testing.T) {
	repo := &mockRepo{stockRows: []StockRow{{ProductID: 1, Name: "Cola 12oz", StockQty: 3, MinStock: 6, Low: true}}}
	svc := NewService(repo, nil)

	rows, err := svc.StockLevels(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.True(t, rows[0].Low)
}

func TestWriteStockCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteStockCSV(&buf, []StockRow{
		{ProductID: 1, Name: "Cola 12oz", StockQty: 3, MinStock: 6, Low: true},
		{ProductID: 2, Name: "Agua 1L", StockQty: 40, MinStock: 6, Low: false},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Product ID,Product,Stock,Min Stock,Low", lines[0])
	require.Contains(t, lines[1], "Cola 12oz")
	require.Contains(t, lines[1], "true")
}
