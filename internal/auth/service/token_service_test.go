package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name           string
		accessSecret   string
		refreshSecret  string
		accessMinutes  int
		refreshMinutes int
	}{
		{
			name:           "valid parameters",
			accessSecret:   "access-secret-key",
			refreshSecret:  "refresh-secret-key",
			accessMinutes:  15,
			refreshMinutes: 10080,
		},
		{
			name:           "empty secrets",
			accessSecret:   "",
			refreshSecret:  "",
			accessMinutes:  30,
			refreshMinutes: 2880,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := NewTokenService(tt.accessSecret, tt.refreshSecret, tt.accessMinutes, tt.refreshMinutes)

			assert.NotNil(t, ts)
			assert.Equal(t, tt.accessSecret, ts.AccessTokenSecret)
			assert.Equal(t, tt.refreshSecret, ts.RefreshTokenSecret)
			assert.Equal(t, time.Duration(tt.accessMinutes)*time.Minute, ts.AccessTokenExpiry)
			assert.Equal(t, time.Duration(tt.refreshMinutes)*time.Minute, ts.RefreshTokenExpiry)
		})
	}
}

func TestTokenService_IssueAccessToken(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)
	email := "test@example.com"

	beforeIssue := time.Now()
	token, err := ts.IssueAccessToken(email)
	afterIssue := time.Now()

	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := &JWTCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(ts.AccessTokenSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, email, claims.Email)
	assert.Equal(t, email, claims.Subject)

	// Expiry lands in the [before, after] + 15m window
	assert.True(t, claims.ExpiresAt.After(beforeIssue.Add(15*time.Minute).Add(-time.Second)))
	assert.True(t, claims.ExpiresAt.Before(afterIssue.Add(15*time.Minute).Add(time.Second)))
}

func TestTokenService_IssueRefreshToken(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)
	email := "test@example.com"

	beforeIssue := time.Now()
	token, expiresAt, err := ts.IssueRefreshToken(email)
	afterIssue := time.Now()

	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := &JWTCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(ts.RefreshTokenSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, email, claims.Email)

	// The returned ledger expiry matches the embedded claim expiry
	assert.WithinDuration(t, claims.ExpiresAt.Time, expiresAt, time.Second)
	assert.True(t, expiresAt.After(beforeIssue.Add(10080*time.Minute).Add(-time.Second)))
	assert.True(t, expiresAt.Before(afterIssue.Add(10080*time.Minute).Add(time.Second)))
}

func TestTokenService_RefreshOutlivesAccess(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)

	accessToken, err := ts.IssueAccessToken("user@test.com")
	require.NoError(t, err)
	refreshToken, _, err := ts.IssueRefreshToken("user@test.com")
	require.NoError(t, err)

	accessClaims, err := ts.Verify(accessToken, AccessToken)
	require.NoError(t, err)
	refreshClaims, err := ts.Verify(refreshToken, RefreshToken)
	require.NoError(t, err)

	assert.True(t, refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time))
}

func TestTokenService_Verify(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)
	email := "test@example.com"

	t.Run("valid access token", func(t *testing.T) {
		token, err := ts.IssueAccessToken(email)
		require.NoError(t, err)

		claims, err := ts.Verify(token, AccessToken)
		require.NoError(t, err)
		assert.Equal(t, email, claims.Email)
	})

	t.Run("valid refresh token", func(t *testing.T) {
		token, _, err := ts.IssueRefreshToken(email)
		require.NoError(t, err)

		claims, err := ts.Verify(token, RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, email, claims.Email)
	})

	t.Run("access token rejected with refresh secret", func(t *testing.T) {
		token, err := ts.IssueAccessToken(email)
		require.NoError(t, err)

		_, err = ts.Verify(token, RefreshToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("tampered token", func(t *testing.T) {
		token, err := ts.IssueAccessToken(email)
		require.NoError(t, err)

		_, err = ts.Verify(token+"x", AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ts.Verify("not-a-jwt", AccessToken)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestTokenService_Verify_Expired(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)

	// Sign a claim that expired a second ago with the real access secret.
	claims := JWTCustomClaims{
		Email: "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "test@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Second)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-16 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
	require.NoError(t, err)

	_, err = ts.Verify(token, AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Verify_ExpiryBoundary(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)

	sign := func(expiresAt time.Time) string {
		claims := JWTCustomClaims{
			Email: "test@example.com",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(expiresAt),
				IssuedAt:  jwt.NewNumericDate(time.Now()),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.AccessTokenSecret))
		require.NoError(t, err)
		return token
	}

	// Still ahead of expiry the token verifies.
	_, err := ts.Verify(sign(time.Now().Add(time.Second+time.Minute)), AccessToken)
	assert.NoError(t, err)

	// One second past expiry it does not.
	_, err = ts.Verify(sign(time.Now().Add(-time.Second)), AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_Verify_RejectsNonHMAC(t *testing.T) {
	ts := NewTokenService("test-access-secret", "test-refresh-secret", 15, 10080)

	// alg=none tokens must never pass, even with a correct payload shape.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, JWTCustomClaims{
		Email: "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.Verify(signed, AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
