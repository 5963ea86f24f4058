package catalog

import (
	"context"
	"strings"
)

// Service applies catalog business rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 100
	}
	return s.repo.ListProducts(ctx, filters)
}

func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, ErrProductNotFound
	}
	return s.repo.GetProduct(ctx, id)
}

// CreateProduct registers a new product. New products start active; the
// initial stock quantity is accepted here once, later changes go through
// the stock ledger.
func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	p.Name = strings.TrimSpace(p.Name)
	p.IsActive = true
	return s.repo.CreateProduct(ctx, p)
}

// UpdateProduct changes product master data. Stock quantity is deliberately
// not updatable here.
func (s *Service) UpdateProduct(ctx context.Context, id int64, p Product) error {
	if id <= 0 {
		return ErrProductNotFound
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(p.Name)
	return s.repo.UpdateProduct(ctx, id, p)
}

// DeactivateProduct hides a product from sale without losing its history.
func (s *Service) DeactivateProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrProductNotFound
	}
	return s.repo.SetProductActive(ctx, id, false)
}

// ActivateProduct brings a deactivated product back.
func (s *Service) ActivateProduct(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrProductNotFound
	}
	return s.repo.SetProductActive(ctx, id, true)
}

// ListLowStock returns active products at or below their minimum stock.
func (s *Service) ListLowStock(ctx context.Context) ([]Product, error) {
	return s.repo.ListLowStock(ctx)
}

func (s *Service) ListSuppliers(ctx context.Context, search string) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx, search)
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, ErrSupplierNotFound
	}
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) CreateSupplier(ctx context.Context, sup Supplier) (Supplier, error) {
	if strings.TrimSpace(sup.Name) == "" {
		return Supplier{}, ErrInvalidName
	}
	sup.Name = strings.TrimSpace(sup.Name)
	return s.repo.CreateSupplier(ctx, sup)
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, sup Supplier) error {
	if id <= 0 {
		return ErrSupplierNotFound
	}
	if strings.TrimSpace(sup.Name) == "" {
		return ErrInvalidName
	}
	sup.Name = strings.TrimSpace(sup.Name)
	return s.repo.UpdateSupplier(ctx, id, sup)
}

// DeactivateSupplier hides a supplier without detaching its products.
func (s *Service) DeactivateSupplier(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrSupplierNotFound
	}
	return s.repo.SetSupplierActive(ctx, id, false)
}

// ActivateSupplier brings a deactivated supplier back.
func (s *Service) ActivateSupplier(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrSupplierNotFound
	}
	return s.repo.SetSupplierActive(ctx, id, true)
}

func validateProduct(p Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidName
	}
	if p.UnitPrice.IsNegative() {
		return ErrNegativePrice
	}
	if p.MinStock < 0 {
		return ErrNegativeMinStock
	}
	return nil
}
