package model

import "time"

// Reservation binds one table to one time window for one party.  A
// reservation is created only by a successful allocation and is never
// mutated in place: an update deletes the old row and inserts a new one
// with a fresh id inside the same transaction.  StartsAt and EndsAt are
// stored in UTC with millisecond precision.
//
// Fields:
//  ID        – primary key identifier, issued on insert.
//  TableID   – table the party is seated at; set once, never changed.
//  UserID    – staff account that created the booking.
//  PartySize – number of guests.
//  StartsAt  – absolute start of the window.
//  EndsAt    – absolute end of the window, always after StartsAt.
//  CreatedAt – creation timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	TableID   uint64    // reservations.table_id
	UserID    uint64    // reservations.user_id
	PartySize int       // reservations.party_size
	StartsAt  time.Time // reservations.starts_at
	EndsAt    time.Time // reservations.ends_at
	CreatedAt time.Time // reservations.created_at
}

// ReservationView is a reservation joined with the descriptive fields of
// its table.  It is the read model returned to API clients; times are
// rendered as RFC3339 strings in UTC.
type ReservationView struct {
	ID            uint64 `json:"id"`
	TableID       uint64 `json:"table_id"`
	TableLabel    string `json:"table_label"`
	TableCapacity int    `json:"table_capacity"`
	PartySize     int    `json:"party_size"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
}
