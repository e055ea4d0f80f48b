package service

import (
	"context"
	"errors"

	"github.com/mkhomytsya/table-reservation/internal/model"
)

// Booking is the engine that allocates tables to reservation requests.
// It is the sole writer of reservation rows; the table catalog is
// read-only to it.  The engine does not log and performs no retries:
// every failure is surfaced as an *Error after the enclosing transaction
// has been rolled back.
type Booking struct {
	store Store
}

// NewBooking constructs the engine on top of the given store.
func NewBooking(store Store) *Booking {
	if store == nil {
		panic("nil store passed to NewBooking")
	}
	return &Booking{store: store}
}

// Create validates the raw parameters and allocates a table for a fresh
// reservation.  It returns the new reservation id, or KindInvalidInput
// when validation fails, or KindNotFound when no table can satisfy the
// request.
func (b *Booking) Create(ctx context.Context, userID uint64, guests, start, duration string) (uint64, error) {
	req, err := ParseRequest(guests, start, duration)
	if err != nil {
		return 0, err
	}
	return b.allocate(ctx, userID, req, 0)
}

// Update replaces the reservation with the given id: the old row is
// deleted and a fresh allocation is performed for the new parameters,
// both inside one transaction.  A new id is issued on success.  It
// returns KindNotFound when the id does not exist and KindConflict when
// the displaced slot cannot be refilled with any table; in both cases
// the original reservation is left exactly as it was.
func (b *Booking) Update(ctx context.Context, userID, id uint64, guests, start, duration string) (uint64, error) {
	req, err := ParseRequest(guests, start, duration)
	if err != nil {
		return 0, err
	}
	return b.allocate(ctx, userID, req, id)
}

// Delete releases the reservation with the given id.  It returns
// KindNotFound when no row matches.
func (b *Booking) Delete(ctx context.Context, id uint64) error {
	ok, err := b.store.Release(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return notFoundf("reservation %d not found", id)
	}
	return nil
}

// Get returns the reservation joined with its table's descriptive
// fields, or KindNotFound.
func (b *Booking) Get(ctx context.Context, id uint64) (*model.ReservationView, error) {
	view, err := b.store.GetView(ctx, id)
	if err != nil {
		if errors.Is(err, ErrReservationNotFound) {
			return nil, notFoundf("reservation %d not found", id)
		}
		return nil, err
	}
	return view, nil
}

// List returns all reservations ordered by start time.
func (b *Booking) List(ctx context.Context) ([]model.ReservationView, error) {
	return b.store.ListViews(ctx)
}

// allocate is the core algorithm.  Inside one transaction it deletes the
// replaced reservation (if any), locks the capacity-sufficient tables,
// rejects every table with a reservation overlapping the requested
// window (inclusive boundaries), and books the tightest-fitting
// remaining table.  Any failure rolls the whole transaction back.
func (b *Booking) allocate(ctx context.Context, userID uint64, req Request, replaceID uint64) (uint64, error) {
	var newID uint64
	err := b.store.Allocate(ctx, func(tx Tx) error {
		if replaceID != 0 {
			ok, err := tx.Delete(ctx, replaceID)
			if err != nil {
				return err
			}
			if !ok {
				return notFoundf("reservation %d not found", replaceID)
			}
		}

		// Candidates arrive ordered by capacity then id, so the first
		// free one is the tightest fit with a stable tie-break.
		tables, err := tx.TablesWithCapacity(ctx, req.PartySize)
		if err != nil {
			return err
		}
		for _, t := range tables {
			existing, err := tx.ReservationsForTable(ctx, t.ID)
			if err != nil {
				return err
			}
			free := true
			for _, r := range existing {
				if Overlaps(req.StartsAt, req.EndsAt, r.StartsAt, r.EndsAt) {
					free = false
					break
				}
			}
			if !free {
				continue
			}
			res := &model.Reservation{
				TableID:   t.ID,
				UserID:    userID,
				PartySize: req.PartySize,
				StartsAt:  req.StartsAt,
				EndsAt:    req.EndsAt,
			}
			if err := tx.Insert(ctx, res); err != nil {
				return err
			}
			newID = res.ID
			return nil
		}

		// A failed replace means an existing slot was displaced with
		// nothing to refill it: that is contention, not a missing
		// resource, and carries different retry semantics.
		if replaceID != 0 {
			return conflictf("no table seats %d guests between %s and %s to replace reservation %d",
				req.PartySize, req.StartsAt.Format(timeLayout), req.EndsAt.Format(timeLayout), replaceID)
		}
		return notFoundf("no table seats %d guests between %s and %s",
			req.PartySize, req.StartsAt.Format(timeLayout), req.EndsAt.Format(timeLayout))
	})
	if err != nil {
		return 0, err
	}
	return newID, nil
}

// timeLayout renders window boundaries in error messages.
const timeLayout = "2006-01-02T15:04:05.000Z"
