package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mkhomytsya/table-reservation/internal/model"
	"github.com/mkhomytsya/table-reservation/internal/service"
)

// ReservationStore is the MySQL implementation of service.Store.  All
// timestamps are stored as DATETIME(3) in UTC so that windows differing
// by a millisecond are kept apart.
type ReservationStore struct {
	db *sql.DB
}

// NewReservationStore returns a ReservationStore bound to the given
// database.
func NewReservationStore(db *sql.DB) *ReservationStore { return &ReservationStore{db: db} }

// DB exposes the underlying handle for callers that need to open their
// own transactions (e.g. schema checks at startup).
func (s *ReservationStore) DB() *sql.DB { return s.db }

// Allocate runs fn inside a single transaction and commits only when fn
// succeeds.  Serialization of concurrent allocators comes from the
// locking read in TablesWithCapacity: every allocator locks the full
// candidate row set before checking overlaps, so two transactions
// competing for the same tables execute their check-then-insert
// sequences one after the other.
func (s *ReservationStore) Allocate(ctx context.Context, fn func(tx service.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(&reservationTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetView reads one reservation joined with its table's label and
// capacity.
func (s *ReservationStore) GetView(ctx context.Context, id uint64) (*model.ReservationView, error) {
	const q = `SELECT r.id, r.table_id, t.label, t.capacity, r.party_size, r.starts_at, r.ends_at
	           FROM reservations r
	           JOIN restaurant_tables t ON t.id = r.table_id
	           WHERE r.id = ?`
	var v model.ReservationView
	var startsAt, endsAt time.Time
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&v.ID, &v.TableID, &v.TableLabel, &v.TableCapacity, &v.PartySize, &startsAt, &endsAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrReservationNotFound
		}
		return nil, err
	}
	v.StartsAt = startsAt.UTC().Format(time.RFC3339Nano)
	v.EndsAt = endsAt.UTC().Format(time.RFC3339Nano)
	return &v, nil
}

// ListViews reads all reservations joined with their tables ordered by
// start time then id.
func (s *ReservationStore) ListViews(ctx context.Context) ([]model.ReservationView, error) {
	const q = `SELECT r.id, r.table_id, t.label, t.capacity, r.party_size, r.starts_at, r.ends_at
	           FROM reservations r
	           JOIN restaurant_tables t ON t.id = r.table_id
	           ORDER BY r.starts_at, r.id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make([]model.ReservationView, 0)
	for rows.Next() {
		var v model.ReservationView
		var startsAt, endsAt time.Time
		if err := rows.Scan(&v.ID, &v.TableID, &v.TableLabel, &v.TableCapacity, &v.PartySize, &startsAt, &endsAt); err != nil {
			return nil, err
		}
		v.StartsAt = startsAt.UTC().Format(time.RFC3339Nano)
		v.EndsAt = endsAt.UTC().Format(time.RFC3339Nano)
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return views, nil
}

// Release deletes one reservation in a single atomic statement and
// reports whether a row matched.
func (s *ReservationStore) Release(ctx context.Context, id uint64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// reservationTx implements service.Tx on top of an open *sql.Tx.  All
// reads go through the transaction so deletes performed earlier in the
// same allocation are visible to the overlap check.
type reservationTx struct {
	tx *sql.Tx
}

// TablesWithCapacity locks and returns every table seating at least
// minSeats guests, ordered by capacity then id.  FOR UPDATE holds the
// row locks until commit or rollback, which is what serializes
// concurrent allocations over a shared candidate set.
func (t *reservationTx) TablesWithCapacity(ctx context.Context, minSeats int) ([]model.Table, error) {
	const q = `SELECT id, label, capacity, created_at
	           FROM restaurant_tables
	           WHERE capacity >= ?
	           ORDER BY capacity, id
	           FOR UPDATE`
	rows, err := t.tx.QueryContext(ctx, q, minSeats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Table
	for rows.Next() {
		var tbl model.Table
		if err := rows.Scan(&tbl.ID, &tbl.Label, &tbl.Capacity, &tbl.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, tbl)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReservationsForTable returns the reservations currently bound to the
// table within this transaction.
func (t *reservationTx) ReservationsForTable(ctx context.Context, tableID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, table_id, user_id, party_size, starts_at, ends_at, created_at
	           FROM reservations
	           WHERE table_id = ?
	           ORDER BY starts_at, id`
	rows, err := t.tx.QueryContext(ctx, q, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Reservation
	for rows.Next() {
		var r model.Reservation
		if err := rows.Scan(&r.ID, &r.TableID, &r.UserID, &r.PartySize, &r.StartsAt, &r.EndsAt, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.StartsAt = r.StartsAt.UTC()
		r.EndsAt = r.EndsAt.UTC()
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Insert persists a new reservation and populates its generated id.
func (t *reservationTx) Insert(ctx context.Context, r *model.Reservation) error {
	const q = `INSERT INTO reservations (table_id, user_id, party_size, starts_at, ends_at)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := t.tx.ExecContext(ctx, q,
		r.TableID, r.UserID, r.PartySize,
		r.StartsAt.UTC().Format(dbTimeLayout), r.EndsAt.UTC().Format(dbTimeLayout),
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = uint64(id)
	return nil
}

// Delete removes a reservation within this transaction and reports
// whether a row matched.
func (t *reservationTx) Delete(ctx context.Context, id uint64) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// dbTimeLayout keeps millisecond precision when writing DATETIME(3)
// columns.
const dbTimeLayout = "2006-01-02 15:04:05.000"
