package domain

import "context"

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks authd/internal/auth/domain UserRepository,RefreshTokenRepository,LoginAttemptRepository

// UserRepository is the credential store. GetByEmail returns (nil, nil)
// when no user has the given email.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
}

// RefreshTokenRepository is the refresh token ledger. FindValid returns
// (nil, nil) when no usable row exists for the token value.
type RefreshTokenRepository interface {
	Store(ctx context.Context, rt *RefreshToken) error
	FindValid(ctx context.Context, token string) (*RefreshToken, error)
	Revoke(ctx context.Context, token string) error
}

// LoginAttemptRepository is the append-only login audit trail.
type LoginAttemptRepository interface {
	Record(ctx context.Context, email, ip string) error
}
