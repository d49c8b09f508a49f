package auth

import (
	"strings"
	"testing"
	"time"

	"demohub/config"
	domainerrors "demohub/internal/domain/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_secret_key_very_long_for_testing"

// fakeClock is a settable time source for token tests.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestJWTService(t *testing.T, clock *fakeClock) *jwtService {
	t.Helper()

	svc, err := newJWTService(testSecret, "HS256", 0, clock.Now)
	require.NoError(t, err)

	return svc
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{SecretKey: testSecret, Algorithm: "HS256"}}

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	token, err := svc.Issue("alice", 20*time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(20*time.Minute), claims.ExpiresAt, 2*time.Second)
}

func TestJWTService_ExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}
	svc := newTestJWTService(t, clock)
	ttl := 20 * time.Minute

	token, err := svc.Issue("alice", ttl)
	require.NoError(t, err)

	clock.t = issuedAt.Add(ttl - time.Second)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.True(t, issuedAt.Add(ttl).Equal(claims.ExpiresAt))

	clock.t = issuedAt.Add(ttl + time.Second)
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired), "got %v", err)
}

func TestJWTService_ExpiryWithSubSecondClock(t *testing.T) {
	issuedAt := time.Date(2026, 10, 14, 12, 0, 0, 900*int(time.Millisecond), time.UTC)
	clock := &fakeClock{t: issuedAt}
	svc := newTestJWTService(t, clock)
	ttl := 20 * time.Minute

	token, err := svc.Issue("alice", ttl)
	require.NoError(t, err)

	clock.t = issuedAt.Add(ttl - 500*time.Millisecond)
	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.False(t, claims.ExpiresAt.Before(issuedAt.Add(ttl)), "expiry %v is before issue+ttl", claims.ExpiresAt)
	assert.True(t, issuedAt.Add(ttl).Add(time.Second).After(claims.ExpiresAt))

	clock.t = issuedAt.Add(ttl + time.Second + time.Millisecond)
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired), "got %v", err)
}

func TestJWTService_ClockSkewLeeway(t *testing.T) {
	issuedAt := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issuedAt}

	svc, err := newJWTService(testSecret, "HS256", 30*time.Second, clock.Now)
	require.NoError(t, err)

	token, err := svc.Issue("alice", time.Minute)
	require.NoError(t, err)

	clock.t = issuedAt.Add(time.Minute + 10*time.Second)
	_, err = svc.Verify(token)
	assert.NoError(t, err)

	clock.t = issuedAt.Add(time.Minute + 31*time.Second)
	_, err = svc.Verify(token)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenExpired))
}

func TestJWTService_TamperedSignature(t *testing.T) {
	svc := newTestJWTService(t, &fakeClock{t: time.Now()})

	token, err := svc.Issue("alice", time.Hour)
	require.NoError(t, err)

	// Flip a character in the middle of the signature segment.
	idx := strings.LastIndex(token, ".") + 10
	replacement := byte('A')
	if token[idx] == 'A' {
		replacement = 'B'
	}
	tampered := token[:idx] + string(replacement) + token[idx+1:]

	_, err = svc.Verify(tampered)
	assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid), "got %v", err)
}

func TestJWTService_InvalidTokens(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	svc := newTestJWTService(t, clock)

	otherSecret, err := newJWTService("different-secret", "HS256", 0, clock.Now)
	require.NoError(t, err)
	foreign, err := otherSecret.Issue("alice", time.Hour)
	require.NoError(t, err)

	otherAlg, err := newJWTService(testSecret, "HS512", 0, clock.Now)
	require.NoError(t, err)
	wrongAlg, err := otherAlg.Issue("alice", time.Hour)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": clock.t.Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "alice",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty token", token: ""},
		{name: "garbage token", token: "clearly-not-a-jwt-token-format"},
		{name: "malformed JWT", token: "header.payload.signature"},
		{name: "wrong secret", token: foreign},
		{name: "wrong algorithm", token: wrongAlg},
		{name: "missing subject", token: noSubject},
		{name: "missing expiry", token: noExpiry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := svc.Verify(tt.token)
			assert.Nil(t, claims)
			assert.True(t, errors.Is(err, domainerrors.ErrTokenInvalid), "got %v", err)
		})
	}
}

func TestJWTService_Configuration(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{name: "nil config", cfg: nil},
		{name: "missing auth section", cfg: &config.Config{}},
		{name: "empty secret", cfg: &config.Config{Auth: &config.AuthConfig{Algorithm: "HS256"}}},
		{name: "empty algorithm", cfg: &config.Config{Auth: &config.AuthConfig{SecretKey: testSecret}}},
		{name: "unknown algorithm", cfg: &config.Config{Auth: &config.AuthConfig{SecretKey: testSecret, Algorithm: "HS999"}}},
		{name: "asymmetric algorithm", cfg: &config.Config{Auth: &config.AuthConfig{SecretKey: testSecret, Algorithm: "RS256"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := NewJWTService(tt.cfg)
			assert.Nil(t, svc)
			assert.True(t, errors.Is(err, domainerrors.ErrConfiguration), "got %v", err)
		})
	}
}

func TestJWTService_IssueRejectsEmptySubject(t *testing.T) {
	svc := newTestJWTService(t, &fakeClock{t: time.Now()})

	_, err := svc.Issue("", time.Minute)
	assert.Error(t, err)
}
