package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", DefaultTokenTTL)

	token, err := codec.Issue(42, "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)

	issued := claims.IssuedAt.Time
	expires := claims.ExpiresAt.Time
	assert.Equal(t, 7*24*time.Hour, expires.Sub(issued))
}

func TestCodecRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", DefaultTokenTTL)
	token, err := codec.Issue(1, "a@b.com")
	require.NoError(t, err)

	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewCodec("right-secret", DefaultTokenTTL).Issue(1, "a@b.com")
	require.NoError(t, err)

	_, err = NewCodec("wrong-secret", DefaultTokenTTL).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	issuer := NewCodec("test-secret", time.Hour).WithClock(func() time.Time { return base })
	token, err := issuer.Issue(1, "a@b.com")
	require.NoError(t, err)

	// same secret, clock advanced past expiry
	verifier := NewCodec("test-secret", time.Hour).WithClock(func() time.Time {
		return base.Add(2 * time.Hour)
	})
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// still inside the window
	verifier = NewCodec("test-secret", time.Hour).WithClock(func() time.Time {
		return base.Add(30 * time.Minute)
	})
	_, err = verifier.Verify(token)
	assert.NoError(t, err)
}

func TestCodecRejectsUnsignedAlgorithm(t *testing.T) {
	t.Parallel()

	claims := Claims{
		UserID: 7,
		Email:  "a@b.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewCodec("test-secret", DefaultTokenTTL).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodecRejectsMalformedToken(t *testing.T) {
	t.Parallel()

	codec := NewCodec("test-secret", DefaultTokenTTL)
	for _, token := range []string{"", "not.a.jwt", "a.b", "...."} {
		_, err := codec.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}
