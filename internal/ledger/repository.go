package ledger

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dist/meridian-core/internal/inventory"
	"github.com/meridian-dist/meridian-core/internal/money"
	"github.com/meridian-dist/meridian-core/internal/payments"
	"github.com/meridian-dist/meridian-core/internal/platform/db"
	"github.com/meridian-dist/meridian-core/internal/sales"
)

// Repository persists the ledger in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx executes the callback inside a repeatable-read transaction. The
// transaction rolls back unless the callback returns nil; locks and the
// connection are released on every exit path.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx, PGTxStore: inventory.NewPGTxStore(tx)})
	})
}

type txRepo struct {
	tx pgx.Tx
	// stock operations come from the inventory store over the same tx
	*inventory.PGTxStore
}

func (r *txRepo) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists)
	return exists, err
}

func (r *txRepo) GetProductForSale(ctx context.Context, productID int64) (ProductInfo, error) {
	var (
		info  ProductInfo
		price string
	)
	err := r.tx.QueryRow(ctx,
		`SELECT id, name, unit_price::text, is_active FROM products WHERE id = $1`,
		productID).Scan(&info.ID, &info.Name, &price, &info.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return ProductInfo{}, inventory.ErrProductNotFound
	}
	if err != nil {
		return ProductInfo{}, err
	}
	info.UnitPrice, err = money.Parse(price)
	return info, err
}

func (r *txRepo) InsertSale(ctx context.Context, sale sales.Sale) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO sales (customer_id, created_at, total, paid, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, sale.CustomerID, sale.CreatedAt, sale.Total.String(), sale.Paid, sale.Notes).Scan(&id)
	return id, err
}

func (r *txRepo) InsertLineItems(ctx context.Context, saleID int64, lines []sales.LineItem) ([]sales.LineItem, error) {
	out := make([]sales.LineItem, 0, len(lines))
	for _, line := range lines {
		line.SaleID = saleID
		err := r.tx.QueryRow(ctx, `
			INSERT INTO sale_lines (sale_id, product_id, qty, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, saleID, line.ProductID, line.Qty, line.UnitPrice.String(), line.Subtotal.String()).Scan(&line.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

func (r *txRepo) GetSaleForUpdate(ctx context.Context, saleID int64) (sales.Sale, error) {
	return scanSale(r.tx.QueryRow(ctx, `
		SELECT id, customer_id, created_at, total::text, paid, COALESCE(notes, '')
		FROM sales WHERE id = $1 FOR UPDATE
	`, saleID))
}

func (r *txRepo) ListLineItems(ctx context.Context, saleID int64) ([]sales.LineItem, error) {
	rows, err := r.tx.Query(ctx, lineItemsQuery, saleID)
	if err != nil {
		return nil, err
	}
	return collectLineItems(rows)
}

func (r *txRepo) DeleteLineItems(ctx context.Context, saleID int64) error {
	_, err := r.tx.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, saleID)
	return err
}

func (r *txRepo) DeleteSale(ctx context.Context, saleID int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM sales WHERE id = $1`, saleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sales.ErrNotFound
	}
	return nil
}

func (r *txRepo) SumPayments(ctx context.Context, saleID int64) (money.Amount, error) {
	var sum string
	err := r.tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::text FROM payments WHERE sale_id = $1`,
		saleID).Scan(&sum)
	if err != nil {
		return money.Amount{}, err
	}
	return money.Parse(sum)
}

func (r *txRepo) InsertPayment(ctx context.Context, p payments.Payment) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `
		INSERT INTO payments (sale_id, amount, method, note, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, p.SaleID, p.Amount.String(), string(p.Method), p.Note, p.PaidAt).Scan(&id)
	return id, err
}

func (r *txRepo) GetPaymentForUpdate(ctx context.Context, paymentID int64) (payments.Payment, error) {
	var (
		p      payments.Payment
		amount string
	)
	err := r.tx.QueryRow(ctx, `
		SELECT id, sale_id, amount::text, method, COALESCE(note, ''), paid_at
		FROM payments WHERE id = $1 FOR UPDATE
	`, paymentID).Scan(&p.ID, &p.SaleID, &amount, &p.Method, &p.Note, &p.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return payments.Payment{}, payments.ErrNotFound
	}
	if err != nil {
		return payments.Payment{}, err
	}
	p.Amount, err = money.Parse(amount)
	return p, err
}

func (r *txRepo) DeletePayment(ctx context.Context, paymentID int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return payments.ErrNotFound
	}
	return nil
}

func (r *txRepo) SetSalePaid(ctx context.Context, saleID int64, paid bool) error {
	tag, err := r.tx.Exec(ctx, `UPDATE sales SET paid = $1 WHERE id = $2`, paid, saleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sales.ErrNotFound
	}
	return nil
}

// ---- pool-level reads ----

const lineItemsQuery = `
	SELECT id, sale_id, product_id, qty, unit_price::text, subtotal::text
	FROM sale_lines WHERE sale_id = $1 ORDER BY id
`

// GetSale loads a sale with its line items.
func (r *Repository) GetSale(ctx context.Context, saleID int64) (sales.Sale, error) {
	sale, err := scanSale(r.pool.QueryRow(ctx, `
		SELECT id, customer_id, created_at, total::text, paid, COALESCE(notes, '')
		FROM sales WHERE id = $1
	`, saleID))
	if err != nil {
		return sales.Sale{}, err
	}
	sale.Lines, err = r.ListLineItems(ctx, saleID)
	return sale, err
}

// ListLineItems lists a sale's line items in insertion order.
func (r *Repository) ListLineItems(ctx context.Context, saleID int64) ([]sales.LineItem, error) {
	rows, err := r.pool.Query(ctx, lineItemsQuery, saleID)
	if err != nil {
		return nil, err
	}
	return collectLineItems(rows)
}

// ListSales lists sales, newest first.
func (r *Repository) ListSales(ctx context.Context, filter SaleFilter) ([]sales.Sale, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, created_at, total::text, paid, COALESCE(notes, '')
		FROM sales
		WHERE ($1 = 0 OR customer_id = $1)
		  AND ($2::boolean IS NULL OR paid = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`, filter.CustomerID, filter.Paid, filter.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sales.Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}

// ListPayments lists the payments of a sale, oldest first.
func (r *Repository) ListPayments(ctx context.Context, saleID int64) ([]payments.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sale_id, amount::text, method, COALESCE(note, ''), paid_at
		FROM payments WHERE sale_id = $1 ORDER BY paid_at, id
	`, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payments.Payment
	for rows.Next() {
		var (
			p      payments.Payment
			amount string
		)
		if err := rows.Scan(&p.ID, &p.SaleID, &amount, &p.Method, &p.Note, &p.PaidAt); err != nil {
			return nil, err
		}
		if p.Amount, err = money.Parse(amount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CustomerExists reports whether the customer id is known.
func (r *Repository) CustomerExists(ctx context.Context, customerID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)`, customerID).Scan(&exists)
	return exists, err
}

// GetCustomerBalance recomputes sold and paid totals from stored records.
func (r *Repository) GetCustomerBalance(ctx context.Context, customerID int64) (CustomerBalance, error) {
	var sold, paid string
	err := r.pool.QueryRow(ctx, `
		SELECT
			COALESCE((SELECT SUM(total) FROM sales WHERE customer_id = $1), 0)::text,
			COALESCE((SELECT SUM(p.amount)
			          FROM payments p JOIN sales s ON s.id = p.sale_id
			          WHERE s.customer_id = $1), 0)::text
	`, customerID).Scan(&sold, &paid)
	if err != nil {
		return CustomerBalance{}, err
	}
	balance := CustomerBalance{CustomerID: customerID}
	if balance.TotalSold, err = money.Parse(sold); err != nil {
		return CustomerBalance{}, err
	}
	if balance.TotalPaid, err = money.Parse(paid); err != nil {
		return CustomerBalance{}, err
	}
	balance.Pending = balance.TotalSold.Sub(balance.TotalPaid)
	return balance, nil
}

func scanSale(row pgx.Row) (sales.Sale, error) {
	var (
		sale  sales.Sale
		total string
	)
	err := row.Scan(&sale.ID, &sale.CustomerID, &sale.CreatedAt, &total, &sale.Paid, &sale.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return sales.Sale{}, sales.ErrNotFound
	}
	if err != nil {
		return sales.Sale{}, err
	}
	sale.Total, err = money.Parse(total)
	return sale, err
}

func collectLineItems(rows pgx.Rows) ([]sales.LineItem, error) {
	defer rows.Close()
	var out []sales.LineItem
	for rows.Next() {
		var (
			li             sales.LineItem
			price, subtotal string
		)
		if err := rows.Scan(&li.ID, &li.SaleID, &li.ProductID, &li.Qty, &price, &subtotal); err != nil {
			return nil, err
		}
		var err error
		if li.UnitPrice, err = money.Parse(price); err != nil {
			return nil, err
		}
		if li.Subtotal, err = money.Parse(subtotal); err != nil {
			return nil, err
		}
		out = append(out, li)
	}
	return out, rows.Err()
}
