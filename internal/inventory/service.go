package inventory

import (
	"context"
	"errors"
)

// RepositoryPort abstracts repository usage for the read-side service.
type RepositoryPort interface {
	ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error)
}

// Service exposes the movement audit trail. Stock mutations go through the
// Ledger inside a coordinator-owned transaction, never through here.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListMovements lists stock movements for a product, newest first.
func (s *Service) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	if filter.ProductID == 0 {
		return nil, errors.New("inventory: product required")
	}
	if filter.Limit <= 0 {
		filter.Limit = 200
	}
	return s.repo.ListMovements(ctx, filter)
}
