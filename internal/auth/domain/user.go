package domain

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken is one ledger row. A token is exchangeable only while
// ExpiresAt is in the future and Revoked is false; rotation and logout
// flip Revoked rather than deleting the row.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}

type LoginAttempt struct {
	ID        string
	Email     string
	IPAddress string
	CreatedAt time.Time
}
