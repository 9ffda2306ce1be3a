package domain

import "time"

// User is an account that can report faults. Identity is verified once the
// campus card number is bound; unbound accounts cannot submit tickets.
type User struct {
	ID           string
	Username     string
	CardNumber   string
	Name         string
	PasswordHash string
	Phone        string
	Address      string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Verified reports whether the account has a bound campus identity.
func (u *User) Verified() bool {
	return u != nil && u.CardNumber != ""
}
