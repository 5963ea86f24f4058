package catalog

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// Repository is the catalog persistence port.
type Repository interface {
	ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	CreateProduct(ctx context.Context, p Product) (Product, error)
	UpdateProduct(ctx context.Context, id int64, p Product) error
	SetProductActive(ctx context.Context, id int64, active bool) error
	ListLowStock(ctx context.Context) ([]Product, error)

	ListSuppliers(ctx context.Context, search string) ([]Supplier, error)
	GetSupplier(ctx context.Context, id int64) (Supplier, error)
	CreateSupplier(ctx context.Context, s Supplier) (Supplier, error)
	UpdateSupplier(ctx context.Context, id int64, s Supplier) error
	SetSupplierActive(ctx context.Context, id int64, active bool) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the PostgreSQL-backed catalog repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const productColumns = `id, name, COALESCE(description, ''), unit_price::text, stock_qty, min_stock,
	COALESCE(supplier_id, 0), is_active, created_at, updated_at`

func (r *repository) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	where := ` WHERE 1=1`
	args := []any{}

	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		where += ` AND name ILIKE $` + strconv.Itoa(len(args))
	}
	if filters.Active != nil {
		args = append(args, *filters.Active)
		where += ` AND is_active = $` + strconv.Itoa(len(args))
	}
	if filters.SupplierID != 0 {
		args = append(args, filters.SupplierID)
		where += ` AND supplier_id = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY name`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		args = append(args, filters.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	products, err := collectProducts(rows)
	return products, total, err
}

func (r *repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *repository) CreateProduct(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `
		INSERT INTO products (name, description, unit_price, stock_qty, min_stock, supplier_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), $7, $8, $8)
		RETURNING id
	`, p.Name, p.Description, p.UnitPrice.String(), p.StockQty, p.MinStock, p.SupplierID, p.IsActive, now).Scan(&p.ID)
	if err != nil {
		return Product{}, err
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *repository) UpdateProduct(ctx context.Context, id int64, p Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $1, description = $2, unit_price = $3, min_stock = $4,
		    supplier_id = NULLIF($5, 0), is_active = $6, updated_at = $7
		WHERE id = $8
	`, p.Name, p.Description, p.UnitPrice.String(), p.MinStock, p.SupplierID, p.IsActive, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) SetProductActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) ListLowStock(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+productColumns+` FROM products
		WHERE is_active AND stock_qty <= min_stock
		ORDER BY stock_qty - min_stock
	`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows)
}

const supplierColumns = `id, name, COALESCE(contact, ''), COALESCE(phone, ''), COALESCE(email, ''),
	is_active, created_at, updated_at`

func (r *repository) ListSuppliers(ctx context.Context, search string) ([]Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE is_active`
	args := []any{}
	if search != "" {
		query += ` AND name ILIKE $1`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repository) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	s, err := scanSupplier(r.db.QueryRow(ctx,
		`SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, ErrSupplierNotFound
	}
	return s, err
}

func (r *repository) CreateSupplier(ctx context.Context, s Supplier) (Supplier, error) {
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `
		INSERT INTO suppliers (name, contact, phone, email, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, $5, $5)
		RETURNING id
	`, s.Name, s.Contact, s.Phone, s.Email, now).Scan(&s.ID)
	if err != nil {
		return Supplier{}, err
	}
	s.IsActive = true
	s.CreatedAt = now
	s.UpdatedAt = now
	return s, nil
}

func (r *repository) UpdateSupplier(ctx context.Context, id int64, s Supplier) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE suppliers SET name = $1, contact = $2, phone = $3, email = $4, updated_at = $5
		WHERE id = $6
	`, s.Name, s.Contact, s.Phone, s.Email, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

func (r *repository) SetSupplierActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE suppliers SET is_active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSupplierNotFound
	}
	return nil
}

func scanSupplier(row pgx.Row) (Supplier, error) {
	var s Supplier
	err := row.Scan(&s.ID, &s.Name, &s.Contact, &s.Phone, &s.Email,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		price string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &price, &p.StockQty, &p.MinStock,
		&p.SupplierID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	p.UnitPrice, err = money.Parse(price)
	return p, err
}

func collectProducts(rows pgx.Rows) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
