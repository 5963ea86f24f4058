package customers

import (
	"context"
	"strings"
)

// Service applies customer business rules on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, search string, limit int) ([]Customer, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.List(ctx, search, limit)
}

func (s *Service) Get(ctx context.Context, id int64) (Customer, error) {
	if id <= 0 {
		return Customer{}, ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, c Customer) (Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return Customer{}, ErrInvalidName
	}
	if c.CreditLimit.IsNegative() {
		return Customer{}, ErrNegativeCreditLimit
	}
	c.Active = true
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, id int64, c Customer) error {
	if id <= 0 {
		return ErrNotFound
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrInvalidName
	}
	if c.CreditLimit.IsNegative() {
		return ErrNegativeCreditLimit
	}
	return s.repo.Update(ctx, id, c)
}

// Deactivate hides a customer from listings. The record and its sale
// history are kept; nothing is ever hard-deleted.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.SetActive(ctx, id, false)
}

// Activate brings a deactivated customer back.
func (s *Service) Activate(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrNotFound
	}
	return s.repo.SetActive(ctx, id, true)
}
