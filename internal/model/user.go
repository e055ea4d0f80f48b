package model

import "time"

// User represents a staff account as stored in the `users` table.  All
// authenticated users are restaurant staff; reservations record which
// account created them but any staff member may manage any booking.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
}
