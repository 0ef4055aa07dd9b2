package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrack/internal/config"
)

const testSecret = "this-is-a-test-secret-at-least-32-chars"

func newTestService(t *testing.T, now time.Time) *hmacJWTService {
	t.Helper()
	return &hmacJWTService{
		signingKey:    []byte(testSecret),
		tokenLifetime: 24 * time.Hour,
		timeFunc:      func() time.Time { return now },
		clockSkew:     2 * time.Minute,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()
		_, err := NewJWTService(config.AuthConfig{JWTSecret: "too-short", TokenLifetimeMinutes: 60})
		assert.Error(t, err)
	})

	t.Run("accepts valid config", func(t *testing.T) {
		t.Parallel()
		svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	userID := uuid.New()
	token, err := svc.GenerateToken(context.Background(), userID, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, now.Add(24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestValidateTokenExpired(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, issued)

	token, err := svc.GenerateToken(context.Background(), uuid.New(), "alice")
	require.NoError(t, err)

	// Advance past the lifetime plus the allowed clock skew.
	svc.timeFunc = func() time.Time { return issued.Add(24*time.Hour + 3*time.Minute) }

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateTokenWithinClockSkew(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, issued)

	token, err := svc.GenerateToken(context.Background(), uuid.New(), "alice")
	require.NoError(t, err)

	// Just past expiry but still inside the 2 minute leeway.
	svc.timeFunc = func() time.Time { return issued.Add(24*time.Hour + time.Minute) }

	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestValidateTokenWrongKey(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	token, err := svc.GenerateToken(context.Background(), uuid.New(), "alice")
	require.NoError(t, err)

	other := newTestService(t, now)
	other.signingKey = []byte("a-completely-different-32-char-secret!!")

	_, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenMalformed(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())

	_, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenMissingIdentityClaims(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, now)

	// Sign a token with the right key but no userId/username claims.
	bare := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "someone",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := bare.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsUnexpectedAlgorithm(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now())

	// alg=none tokens must never validate.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"username": "alice"})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), tokenString)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
