package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists inventory data in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListMovements lists stock movements, newest first.
func (r *Repository) ListMovements(ctx context.Context, filter MovementFilter) ([]Movement, error) {
	query := `
		SELECT id, code, movement_type, product_id, qty, balance, COALESCE(reason, ''),
		       COALESCE(ref_sale_id, 0), posted_at
		FROM stock_movements
		WHERE product_id = $1
		  AND ($2 = '' OR movement_type = $2)
		  AND ($3::timestamptz IS NULL OR posted_at >= $3)
		  AND ($4::timestamptz IS NULL OR posted_at <= $4)
		ORDER BY posted_at DESC, id DESC
		LIMIT $5
	`
	from := pgtype.Timestamptz{Time: filter.From, Valid: !filter.From.IsZero()}
	to := pgtype.Timestamptz{Time: filter.To, Valid: !filter.To.IsZero()}
	rows, err := r.pool.Query(ctx, query, filter.ProductID, string(filter.Type), from, to, filter.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.ID, &m.Code, &m.Type, &m.ProductID, &m.Qty, &m.Balance,
			&m.Reason, &m.RefSaleID, &m.PostedAt); err != nil {
			return nil, err
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

// PGTxStore adapts a pgx transaction to the ledger's TxStore. The caller
// owns the transaction lifecycle; all writes here persist or vanish with it.
type PGTxStore struct {
	tx pgx.Tx
}

// NewPGTxStore wraps an open transaction.
func NewPGTxStore(tx pgx.Tx) *PGTxStore {
	return &PGTxStore{tx: tx}
}

// GetStockForUpdate loads and row-locks a product's stock quantity.
func (s *PGTxStore) GetStockForUpdate(ctx context.Context, productID int64) (int, error) {
	var qty int
	err := s.tx.QueryRow(ctx,
		`SELECT stock_qty FROM products WHERE id = $1 FOR UPDATE`, productID,
	).Scan(&qty)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	return qty, err
}

// UpdateStock writes the new stock quantity.
func (s *PGTxStore) UpdateStock(ctx context.Context, productID int64, qty int) error {
	tag, err := s.tx.Exec(ctx,
		`UPDATE products SET stock_qty = $1, updated_at = now() WHERE id = $2`, qty, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// InsertMovement appends a movement record.
func (s *PGTxStore) InsertMovement(ctx context.Context, m Movement) (int64, error) {
	var id int64
	err := s.tx.QueryRow(ctx, `
		INSERT INTO stock_movements (code, movement_type, product_id, qty, balance, reason, ref_sale_id, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, 0), $8)
		RETURNING id
	`, m.Code, string(m.Type), m.ProductID, m.Qty, m.Balance, m.Reason, m.RefSaleID, m.PostedAt).Scan(&id)
	return id, err
}
