package reports

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"
)

// Service coordinates report query execution with the cache layer. Identical
// concurrent requests collapse into one repository call.
type Service struct {
	repo  Repository
	cache *Cache
	group singleflight.Group
}

// NewService wires a Repository with a Cache helper.
func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// SalesByCustomer summarises sales, payments and pending balance per
// customer in the period.
func (s *Service) SalesByCustomer(ctx context.Context, period Period) ([]CustomerSalesRow, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "sales-by-customer", periodToken(period))
	if err != nil {
		return nil, err
	}
	var out []CustomerSalesRow
	err = s.fetch(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.SalesByCustomer(ctx, period)
	})
	return out, err
}

// PaymentsByMethod totals payments per method in the period.
func (s *Service) PaymentsByMethod(ctx context.Context, period Period) ([]MethodTotalsRow, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "payments-by-method", periodToken(period))
	if err != nil {
		return nil, err
	}
	var out []MethodTotalsRow
	err = s.fetch(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.PaymentsByMethod(ctx, period)
	})
	return out, err
}

// StockLevels lists current stock positions of active products.
func (s *Service) StockLevels(ctx context.Context) ([]StockRow, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "stock")
	if err != nil {
		return nil, err
	}
	var out []StockRow
	err = s.fetch(ctx, key, &out, func(ctx context.Context) (any, error) {
		return s.repo.StockLevels(ctx)
	})
	return out, err
}

// Invalidate bumps the cache version after a ledger mutation.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// fetch collapses concurrent identical requests: the leader resolves the
// value through the cache and every caller, leader or follower, decodes it
// from the shared singleflight result.
func (s *Service) fetch(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	resultChan := s.group.DoChan(key, func() (any, error) {
		var raw json.RawMessage
		if err := s.cache.FetchJSON(ctx, key, &raw, loader); err != nil {
			return nil, err
		}
		return raw, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.(json.RawMessage), dest)
	}
}

func periodToken(p Period) string {
	const layout = "20060102"
	from, to := "-", "-"
	if !p.From.IsZero() {
		from = p.From.UTC().Format(layout)
	}
	if !p.To.IsZero() {
		to = p.To.UTC().Format(layout)
	}
	return from + ":" + to
}

// ParsePeriod reads from/to query values in RFC3339 or date-only form.
func ParsePeriod(from, to string) Period {
	var p Period
	p.From = parseTime(from)
	p.To = parseTime(to)
	return p
}

func parseTime(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t
	}
	return time.Time{}
}
