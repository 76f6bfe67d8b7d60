package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoxiao0301/listen-stream-radio/pkg/errors"
)

const testSecret = "test-secret-key-at-least-32-bytes-long-for-security"

func TestNewManager_DefaultExpiry(t *testing.T) {
	mgr := NewManager(&Config{Secret: testSecret, Issuer: "radio"})
	assert.Equal(t, time.Hour, mgr.GetExpiryTime())

	mgr = NewManager(&Config{Secret: testSecret, TokenExpiry: 2 * time.Hour})
	assert.Equal(t, 2*time.Hour, mgr.GetExpiryTime())
}

func TestVerify_RoundTrip(t *testing.T) {
	mgr := NewManager(&Config{Secret: testSecret, Issuer: "radio"})

	token, err := mgr.GenerateToken("u1", "u1@example.com")
	require.NoError(t, err)

	id, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "u1@example.com", id.Email)
}

func TestGenerateToken_RequiresUser(t *testing.T) {
	mgr := NewManager(&Config{Secret: testSecret})
	_, err := mgr.GenerateToken("  ", "x@example.com")
	assert.Error(t, err)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewManager(&Config{Secret: testSecret})
	verifier := NewManager(&Config{Secret: "another-secret-another-secret-another"})

	token, err := issuer.GenerateToken("u1", "")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, errors.ErrTokenInvalid)
}

func TestVerify_WrongIssuer(t *testing.T) {
	issuer := NewManager(&Config{Secret: testSecret, Issuer: "someone-else"})
	verifier := NewManager(&Config{Secret: testSecret, Issuer: "radio"})

	token, err := issuer.GenerateToken("u1", "")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, errors.ErrTokenInvalid)
}

func TestVerify_Expired(t *testing.T) {
	mgr := NewManager(&Config{Secret: testSecret})

	claims := &Claims{
		UserID:    "u1",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, errors.ErrTokenExpired)
}

func TestVerify_RefreshTokenRejected(t *testing.T) {
	mgr := NewManager(&Config{Secret: testSecret})

	claims := &Claims{
		UserID:    "u1",
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	assert.ErrorIs(t, err, errors.ErrTokenInvalid)
}

func TestVerify_FallsBackToSubject(t *testing.T) {
	mgr := NewManager(&Config{Secret: testSecret})

	claims := &Claims{
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "from-sub",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	id, err := mgr.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "from-sub", id.UserID)
}

func TestVerify_Garbage(t *testing.T) {
	mgr := NewManager(&Config{Secret: testSecret})
	_, err := mgr.Verify("not-a-jwt")
	assert.ErrorIs(t, err, errors.ErrTokenInvalid)
}
