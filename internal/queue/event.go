// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// ReservationConfirmedEvent is published after a reservation commits.
// It carries enough information for downstream consumers to log or
// notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	TableID       uint64 `json:"table_id"`
	TableLabel    string `json:"table_label"`
	PartySize     int    `json:"party_size"`
	StartsAt      string `json:"starts_at"`
	EndsAt        string `json:"ends_at"`
	CreatedBy     uint64 `json:"created_by"`
	ReplacedID    uint64 `json:"replaced_id,omitempty"`
	ConfirmedAt   string `json:"confirmed_at"`
}

// ReservationCancelledEvent is published after a reservation is deleted.
type ReservationCancelledEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	CancelledAt   string `json:"cancelled_at"`
}
