package model

import "time"

// Table describes a physical dining table in the restaurant.  Tables are
// the allocatable unit of the booking engine: every reservation binds to
// exactly one table.  Capacity is the number of guests the table seats
// and never changes while the service is running.
//
// Fields:
//  ID        – primary key identifier.
//  Label     – human readable name printed on the floor plan (e.g. "T1").
//  Capacity  – number of seats, always positive.
//  CreatedAt – creation timestamp.
type Table struct {
	ID        uint64    // restaurant_tables.id
	Label     string    // restaurant_tables.label
	Capacity  int       // restaurant_tables.capacity
	CreatedAt time.Time // restaurant_tables.created_at
}
