package model

import "time"

// User is an account that can book seats.  Booking never mutates a
// user; it only resolves the identity into buyer information that is
// copied onto the payment record.  This struct corresponds to a row
// in the `users` table.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name of the account holder.
//  Email        – unique email address.
//  Phone        – contact phone number.
//  PasswordHash – bcrypt hash of the password; never serialized.
//  Role         – account role (CUSTOMER, ADMIN).
//  CreatedAt    – timestamp when the account was created.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	Phone        string    // users.phone
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}

// BuyerInfo is the slice of a User that payment initiation needs.  It
// is resolved once at the start of a booking and persisted verbatim on
// the payment row so the record stays meaningful even if the user row
// changes later.
type BuyerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone_number"`
	Email string `json:"email"`
}
