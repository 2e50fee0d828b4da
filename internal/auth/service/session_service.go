package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"authd/internal/auth/domain"
	"authd/internal/auth/dto"
	autherror "authd/internal/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionService orchestrates registration, login, refresh and logout over
// the credential store, the token signer and the refresh token ledger.
type SessionService struct {
	users    domain.UserRepository
	ledger   domain.RefreshTokenRepository
	attempts domain.LoginAttemptRepository
	tokens   TokenIssuer
}

func NewSessionService(
	users domain.UserRepository,
	ledger domain.RefreshTokenRepository,
	attempts domain.LoginAttemptRepository,
	tokens TokenIssuer,
) *SessionService {
	return &SessionService{
		users:    users,
		ledger:   ledger,
		attempts: attempts,
		tokens:   tokens,
	}
}

// Register creates a new user. It never issues tokens; a fresh account still
// has to log in.
func (s *SessionService) Register(ctx context.Context, input dto.RegisterInput) (*domain.User, error) {
	existingUser, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and mints an independent access/refresh pair.
// Every attempt, failed or not, lands in the login audit trail. Repeated
// logins each produce their own pair; there is no single-session limit.
func (s *SessionService) Login(ctx context.Context, input dto.LoginInput) (*dto.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		_ = s.attempts.Record(ctx, input.Email, input.IPAddress)
		return nil, autherror.ErrUserNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		_ = s.attempts.Record(ctx, input.Email, input.IPAddress)
		return nil, autherror.ErrInvalidPassword
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.attempts.Record(ctx, input.Email, input.IPAddress); err != nil {
		return nil, err
	}

	return pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must
// carry a valid signature, still have a live ledger row, and belong to a user
// that still exists. The presented row is revoked as part of the exchange, so
// a once-used token cannot be replayed.
func (s *SessionService) Refresh(ctx context.Context, presented string) (*dto.TokenPair, error) {
	if presented == "" {
		return nil, autherror.ErrRefreshTokenRequired
	}

	claims, err := s.tokens.Verify(presented, RefreshToken)
	if err != nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	row, err := s.ledger.FindValid(ctx, presented)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, autherror.ErrInvalidRefreshToken
	}

	user, err := s.users.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Account deleted since issuance. Same response as a bad token.
		return nil, autherror.ErrInvalidRefreshToken
	}

	if err := s.ledger.Revoke(ctx, presented); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	return s.issueTokenPair(ctx, user)
}

// Logout revokes the presented refresh token's ledger row, if one was
// presented. Cookie clearing is the transport's job; logout itself never
// fails the request.
func (s *SessionService) Logout(ctx context.Context, presented string) {
	if presented == "" {
		return
	}

	if err := s.ledger.Revoke(ctx, presented); err != nil {
		log.Printf("warn: failed to revoke refresh token on logout: %v", err)
	}
}

func (s *SessionService) issueTokenPair(ctx context.Context, user *domain.User) (*dto.TokenPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(user.Email)
	if err != nil {
		return nil, err
	}

	refreshToken, expiresAt, err := s.tokens.IssueRefreshToken(user.Email)
	if err != nil {
		return nil, err
	}

	row := &domain.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
		Revoked:   false,
	}

	if err := s.ledger.Store(ctx, row); err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
