package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-dist/meridian-core/internal/money"
)

type memoryRepo struct {
	products  map[int64]Product
	suppliers map[int64]Supplier
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: map[int64]Product{}, suppliers: map[int64]Supplier{}}
}

func (m *memoryRepo) ListProducts(_ context.Context, filters ListFilters) ([]Product, int, error) {
	var out []Product
	for _, p := range m.products {
		if filters.Active != nil && p.IsActive != *filters.Active {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *memoryRepo) GetProduct(_ context.Context, id int64) (Product, error) {
	p, ok := m.products[id]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (m *memoryRepo) CreateProduct(_ context.Context, p Product) (Product, error) {
	m.nextID++
	p.ID = m.nextID
	m.products[p.ID] = p
	return p, nil
}

func (m *memoryRepo) UpdateProduct(_ context.Context, id int64, p Product) error {
	old, ok := m.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.ID = id
	p.StockQty = old.StockQty
	m.products[id] = p
	return nil
}

func (m *memoryRepo) SetProductActive(_ context.Context, id int64, active bool) error {
	p, ok := m.products[id]
	if !ok {
		return ErrProductNotFound
	}
	p.IsActive = active
	m.products[id] = p
	return nil
}

func (m *memoryRepo) ListLowStock(_ context.Context) ([]Product, error) {
	var out []Product
	for _, p := range m.products {
		if p.LowOnStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memoryRepo) ListSuppliers(_ context.Context, _ string) ([]Supplier, error) {
	var out []Supplier
	for _, s := range m.suppliers {
		if s.IsActive {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryRepo) GetSupplier(_ context.Context, id int64) (Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return Supplier{}, ErrSupplierNotFound
	}
	return s, nil
}

func (m *memoryRepo) CreateSupplier(_ context.Context, s Supplier) (Supplier, error) {
	m.nextID++
	s.ID = m.nextID
	s.IsActive = true
	m.suppliers[s.ID] = s
	return s, nil
}

func (m *memoryRepo) UpdateSupplier(_ context.Context, id int64, s Supplier) error {
	if _, ok := m.suppliers[id]; !ok {
		return ErrSupplierNotFound
	}
	s.ID = id
	m.suppliers[id] = s
	return nil
}

func (m *memoryRepo) SetSupplierActive(_ context.Context, id int64, active bool) error {
	s, ok := m.suppliers[id]
	if !ok {
		return ErrSupplierNotFound
	}
	s.IsActive = active
	m.suppliers[id] = s
	return nil
}

func TestCreateProductValidation(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.CreateProduct(context.Background(), Product{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.CreateProduct(context.Background(), Product{
		Name:      "Cola 12oz",
		UnitPrice: money.MustParse("-1.00"),
	})
	require.ErrorIs(t, err, ErrNegativePrice)

	_, err = svc.CreateProduct(context.Background(), Product{
		Name:      "Cola 12oz",
		UnitPrice: money.MustParse("5.00"),
		MinStock:  -1,
	})
	require.ErrorIs(t, err, ErrNegativeMinStock)

	p, err := svc.CreateProduct(context.Background(), Product{
		Name:      " Cola 12oz ",
		UnitPrice: money.MustParse("5.00"),
		StockQty:  24,
		MinStock:  6,
	})
	require.NoError(t, err)
	require.Equal(t, "Cola 12oz", p.Name)
	require.True(t, p.IsActive)
}

func TestDeactivateProductKeepsRecord(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	p, err := svc.CreateProduct(context.Background(), Product{
		Name: "Agua 1L", UnitPrice: money.MustParse("2.50"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateProduct(context.Background(), p.ID))
	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	require.NoError(t, svc.ActivateProduct(context.Background(), p.ID))
	got, err = svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	require.True(t, got.IsActive)
}

func TestListLowStock(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	low, err := svc.CreateProduct(context.Background(), Product{
		Name: "Cola 12oz", UnitPrice: money.MustParse("5.00"), StockQty: 3, MinStock: 6,
	})
	require.NoError(t, err)
	_, err = svc.CreateProduct(context.Background(), Product{
		Name: "Agua 1L", UnitPrice: money.MustParse("2.50"), StockQty: 50, MinStock: 6,
	})
	require.NoError(t, err)

	// an inactive product never alerts
	hidden, err := svc.CreateProduct(context.Background(), Product{
		Name: "Jugo 500ml", UnitPrice: money.MustParse("3.00"), StockQty: 0, MinStock: 6,
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateProduct(context.Background(), hidden.ID))

	items, err := svc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, low.ID, items[0].ID)
}

func TestDeactivateSupplierKeepsRecord(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	sup, err := svc.CreateSupplier(context.Background(), Supplier{Name: "Embotelladora Norte"})
	require.NoError(t, err)

	_, err = svc.CreateProduct(context.Background(), Product{
		Name: "Cola 12oz", UnitPrice: money.MustParse("5.00"), SupplierID: sup.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateSupplier(context.Background(), sup.ID))

	// the record and the product reference survive deactivation
	got, err := svc.GetSupplier(context.Background(), sup.ID)
	require.NoError(t, err)
	require.False(t, got.IsActive)

	listed, err := svc.ListSuppliers(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, listed)

	require.NoError(t, svc.ActivateSupplier(context.Background(), sup.ID))
	listed, err = svc.ListSuppliers(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestSupplierNameRequired(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.CreateSupplier(context.Background(), Supplier{Name: "   "})
	require.ErrorIs(t, err, ErrInvalidName)
}
