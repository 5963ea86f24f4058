package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// Repository exposes the aggregation queries the report service relies on.
type Repository interface {
	SalesByCustomer(ctx context.Context, period Period) ([]CustomerSalesRow, error)
	PaymentsByMethod(ctx context.Context, period Period) ([]MethodTotalsRow, error)
	StockLevels(ctx context.Context) ([]StockRow, error)
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the PostgreSQL-backed report repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) SalesByCustomer(ctx context.Context, period Period) ([]CustomerSalesRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.name,
		       COUNT(s.id),
		       COALESCE(SUM(s.total), 0)::text,
		       COALESCE((SELECT SUM(p.amount)
		                 FROM payments p JOIN sales ps ON ps.id = p.sale_id
		                 WHERE ps.customer_id = c.id
		                   AND ($1::timestamptz IS NULL OR ps.created_at >= $1)
		                   AND ($2::timestamptz IS NULL OR ps.created_at < $2)), 0)::text
		FROM customers c
		LEFT JOIN sales s ON s.customer_id = c.id
		  AND ($1::timestamptz IS NULL OR s.created_at >= $1)
		  AND ($2::timestamptz IS NULL OR s.created_at < $2)
		GROUP BY c.id, c.name
		HAVING COUNT(s.id) > 0
		ORDER BY SUM(s.total) DESC NULLS LAST
	`, tsParam(period.From), tsParam(period.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CustomerSalesRow
	for rows.Next() {
		var (
			row        CustomerSalesRow
			sold, paid string
		)
		if err := rows.Scan(&row.CustomerID, &row.CustomerName, &row.SaleCount, &sold, &paid); err != nil {
			return nil, err
		}
		if row.TotalSold, err = money.Parse(sold); err != nil {
			return nil, err
		}
		if row.TotalPaid, err = money.Parse(paid); err != nil {
			return nil, err
		}
		row.Pending = row.TotalSold.Sub(row.TotalPaid)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) PaymentsByMethod(ctx context.Context, period Period) ([]MethodTotalsRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT method, COUNT(*), COALESCE(SUM(amount), 0)::text
		FROM payments
		WHERE ($1::timestamptz IS NULL OR paid_at >= $1)
		  AND ($2::timestamptz IS NULL OR paid_at < $2)
		GROUP BY method
		ORDER BY method
	`, tsParam(period.From), tsParam(period.To))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MethodTotalsRow
	for rows.Next() {
		var (
			row   MethodTotalsRow
			total string
		)
		if err := rows.Scan(&row.Method, &row.Count, &total); err != nil {
			return nil, err
		}
		if row.Total, err = money.Parse(total); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *repository) StockLevels(ctx context.Context) ([]StockRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, stock_qty, min_stock, stock_qty <= min_stock
		FROM products
		WHERE is_active
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StockRow
	for rows.Next() {
		var row StockRow
		if err := rows.Scan(&row.ProductID, &row.Name, &row.StockQty, &row.MinStock, &row.Low); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func tsParam(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}
