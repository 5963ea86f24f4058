package customers

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-dist/meridian-core/internal/money"
)

// Repository is the customer persistence port.
type Repository interface {
	List(ctx context.Context, search string, limit int) ([]Customer, error)
	Get(ctx context.Context, id int64) (Customer, error)
	Create(ctx context.Context, c Customer) (Customer, error)
	Update(ctx context.Context, id int64, c Customer) error
	SetActive(ctx context.Context, id int64, active bool) error
}

type repository struct {
	db *pgxpool.Pool
}

// NewRepository builds the PostgreSQL-backed customer repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const customerColumns = `id, name, COALESCE(address, ''), COALESCE(phone, ''),
	COALESCE(email, ''), COALESCE(notes, ''), credit_limit::text, active, created_at, updated_at`

func (r *repository) List(ctx context.Context, search string, limit int) ([]Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE active`
	args := []any{limit}
	if search != "" {
		query += ` AND name ILIKE $2`
		args = append(args, "%"+search+"%")
	}
	query += ` ORDER BY name LIMIT $1`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Customer, error) {
	c, err := scanCustomer(r.db.QueryRow(ctx,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, ErrNotFound
	}
	return c, err
}

func (r *repository) Create(ctx context.Context, c Customer) (Customer, error) {
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (name, address, phone, email, notes, credit_limit, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6::numeric, TRUE, $7, $7)
		RETURNING id
	`, c.Name, c.Address, c.Phone, c.Email, c.Notes, c.CreditLimit.String(), now).Scan(&c.ID)
	if err != nil {
		return Customer{}, err
	}
	c.Active = true
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, c Customer) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers SET name = $1, address = $2, phone = $3, email = $4, notes = $5,
			credit_limit = $6::numeric, updated_at = $7
		WHERE id = $8
	`, c.Name, c.Address, c.Phone, c.Email, c.Notes, c.CreditLimit.String(), time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE customers SET active = $1, updated_at = $2 WHERE id = $3`,
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCustomer(row pgx.Row) (Customer, error) {
	var (
		c     Customer
		limit string
	)
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Notes,
		&limit, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Customer{}, err
	}
	c.CreditLimit, err = money.Parse(limit)
	return c, err
}
