package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkhomytsya/table-reservation/internal/model"
)

// TableRepo provides read access to the restaurant_tables catalog.  The
// catalog is fixed while the service runs: the booking engine reads it
// but never writes to it.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo {
	return &TableRepo{db: db}
}

// List retrieves all tables ordered by capacity then id.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
	const q = `SELECT id, label, capacity, created_at
	           FROM restaurant_tables
	           ORDER BY capacity, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Table
	for rows.Next() {
		var t model.Table
		if err := rows.Scan(&t.ID, &t.Label, &t.Capacity, &t.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID retrieves a single table by its id.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	const q = `SELECT id, label, capacity, created_at
	           FROM restaurant_tables WHERE id = ?`
	var t model.Table
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&t.ID, &t.Label, &t.Capacity, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTableNotFound
		}
		return nil, err
	}
	return &t, nil
}
