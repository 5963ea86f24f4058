package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-dist/meridian-core/internal/money"
)

type memoryRepo struct {
	customers map[int64]Customer
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{customers: map[int64]Customer{}}
}

func (m *memoryRepo) List(_ context.Context, _ string, _ int) ([]Customer, error) {
	var out []Customer
	for _, c := range m.customers {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryRepo) Get(_ context.Context, id int64) (Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return Customer{}, ErrNotFound
	}
	return c, nil
}

func (m *memoryRepo) Create(_ context.Context, c Customer) (Customer, error) {
	m.nextID++
	c.ID = m.nextID
	m.customers[c.ID] = c
	return c, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, c Customer) error {
	old, ok := m.customers[id]
	if !ok {
		return ErrNotFound
	}
	c.ID = id
	c.Active = old.Active
	m.customers[id] = c
	return nil
}

func (m *memoryRepo) SetActive(_ context.Context, id int64, active bool) error {
	c, ok := m.customers[id]
	if !ok {
		return ErrNotFound
	}
	c.Active = active
	m.customers[id] = c
	return nil
}

func TestCreateRequiresName(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Customer{Name: "  "})
	require.ErrorIs(t, err, ErrInvalidName)

	c, err := svc.Create(context.Background(), Customer{Name: " Tienda La Esquina "})
	require.NoError(t, err)
	require.Equal(t, "Tienda La Esquina", c.Name)
	require.True(t, c.Active)
}

func TestCreateRejectsNegativeCreditLimit(t *testing.T) {
	svc := NewService(newMemoryRepo())

	_, err := svc.Create(context.Background(), Customer{
		Name:        "Tienda La Esquina",
		CreditLimit: money.MustParse("-1.00"),
	})
	require.ErrorIs(t, err, ErrNegativeCreditLimit)

	c, err := svc.Create(context.Background(), Customer{
		Name:        "Tienda La Esquina",
		CreditLimit: money.MustParse("500.00"),
	})
	require.NoError(t, err)
	require.Equal(t, "500.00", c.CreditLimit.String())
}

func TestDeactivateKeepsRecord(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), Customer{Name: "Tienda La Esquina"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), c.ID))

	got, err := svc.Get(context.Background(), c.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	listed, err := svc.List(context.Background(), "", 100)
	require.NoError(t, err)
	require.Empty(t, listed)

	require.NoError(t, svc.Activate(context.Background(), c.ID))
	listed, err = svc.List(context.Background(), "", 100)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestUpdateUnknownCustomer(t *testing.T) {
	svc := NewService(newMemoryRepo())

	err := svc.Update(context.Background(), 404, Customer{Name: "X"})
	require.ErrorIs(t, err, ErrNotFound)
}
