// Package repository implements MySQL persistence for the booking
// service: the read-only table catalog, the transactional reservation
// store consumed by the booking engine, and staff accounts.  Sentinel
// errors defined here let higher layers distinguish failure scenarios
// without string matching.
package repository

import "errors"

// ErrTableNotFound is returned when a table lookup yields no rows.
var ErrTableNotFound = errors.New("table not found")

// ErrEmailExists is returned when registering a user whose email is
// already taken.
var ErrEmailExists = errors.New("email already exists")
