package service

//go:generate mockgen -destination=../../mocks/mock_token_issuer.go -package=mocks authd/internal/auth/service TokenIssuer

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind selects which secret signs and verifies a token.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

var (
	// ErrTokenExpired means the signature checked out but the claim is past
	// its expiry. Callers can tell a stale client apart from a forged token.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

type TokenIssuer interface {
	IssueAccessToken(email string) (string, error)
	IssueRefreshToken(email string) (string, time.Time, error)
	Verify(tokenString string, kind TokenKind) (*JWTCustomClaims, error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

func (ts *TokenService) IssueAccessToken(email string) (string, error) {
	return ts.sign(email, ts.AccessTokenExpiry, ts.AccessTokenSecret)
}

// IssueRefreshToken also returns the expiry so the caller can persist the
// matching ledger row.
func (ts *TokenService) IssueRefreshToken(email string) (string, time.Time, error) {
	expiresAt := time.Now().Add(ts.RefreshTokenExpiry)

	token, err := ts.sign(email, ts.RefreshTokenExpiry, ts.RefreshTokenSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

func (ts *TokenService) sign(email string, expiry time.Duration, secret string) (string, error) {
	now := time.Now()

	claims := JWTCustomClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration {
	return ts.AccessTokenExpiry
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}

// Verify parses and validates the given token string against the secret for
// kind. Expired-but-authentic tokens fail with ErrTokenExpired, everything
// else with ErrTokenInvalid.
func (ts *TokenService) Verify(tokenString string, kind TokenKind) (*JWTCustomClaims, error) {
	secret := ts.AccessTokenSecret
	if kind == RefreshToken {
		secret = ts.RefreshTokenSecret
	}

	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}

		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
