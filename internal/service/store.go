package service

import (
	"context"
	"errors"

	"github.com/mkhomytsya/table-reservation/internal/model"
)

// ErrReservationNotFound is returned by Store implementations when a
// reservation id matches no row.
var ErrReservationNotFound = errors.New("reservation not found")

// Store is the transactional persistence surface the booking engine runs
// on.  The production implementation lives in the repository package on
// top of MySQL; tests use an in-memory implementation with the same
// atomicity guarantees.
type Store interface {
	// Allocate runs fn inside a single transaction.  When fn returns an
	// error the transaction is rolled back and no partial state remains
	// observable; otherwise it is committed.  Implementations must
	// serialize concurrent Allocate calls that touch the same candidate
	// tables, so that a check-then-insert sequence inside fn cannot race
	// with another caller's insert.
	Allocate(ctx context.Context, fn func(tx Tx) error) error

	// GetView reads one reservation joined with its table, or
	// ErrReservationNotFound.
	GetView(ctx context.Context, id uint64) (*model.ReservationView, error)

	// ListViews reads all reservations joined with their tables,
	// ordered by start time then id.
	ListViews(ctx context.Context) ([]model.ReservationView, error)

	// Release deletes one reservation in a single atomic statement and
	// reports whether a row matched.
	Release(ctx context.Context, id uint64) (bool, error)
}

// Tx is the view of an open allocation transaction.  All reads observe
// writes made earlier in the same transaction.
type Tx interface {
	// TablesWithCapacity returns every table seating at least minSeats
	// guests, ordered by capacity ascending then id ascending.  The
	// returned rows stay locked against concurrent allocators until the
	// transaction ends.
	TablesWithCapacity(ctx context.Context, minSeats int) ([]model.Table, error)

	// ReservationsForTable returns the reservations currently bound to
	// the table, including the effect of deletes performed earlier in
	// this transaction.
	ReservationsForTable(ctx context.Context, tableID uint64) ([]model.Reservation, error)

	// Insert persists a new reservation and populates its ID.
	Insert(ctx context.Context, res *model.Reservation) error

	// Delete removes a reservation and reports whether a row matched.
	Delete(ctx context.Context, id uint64) (bool, error)
}
