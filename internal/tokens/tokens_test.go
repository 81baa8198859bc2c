package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestNewAccessToken_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	raw, err := NewAccessToken(testSecret, "alice", 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	var claims AccessClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) { return testSecret, nil })
	require.NoError(t, err)

	assert.Equal(t, "alice", claims.Subject)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestSubjectFromToken_RoundTrip(t *testing.T) {
	t.Parallel()

	raw, err := NewAccessToken(testSecret, "alice", 0) // DefaultTTL
	require.NoError(t, err)

	sub, err := SubjectFromToken(raw, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)
}

func TestSubjectFromToken_Expired(t *testing.T) {
	t.Parallel()

	// ttl в прошлом: годный за мгновение до exp токен после exp обязан
	// быть отвергнут
	raw, err := NewAccessToken(testSecret, "alice", -time.Second)
	require.NoError(t, err)

	_, err = SubjectFromToken(raw, testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubjectFromToken_WrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := NewAccessToken([]byte("another-secret"), "alice", time.Minute)
	require.NoError(t, err)

	_, err = SubjectFromToken(raw, testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubjectFromToken_Garbage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := SubjectFromToken(raw, testSecret)
		require.ErrorIs(t, err, ErrInvalidToken, "raw=%q", raw)
	}
}

func TestSubjectFromToken_EmptySubject(t *testing.T) {
	t.Parallel()

	raw, err := NewAccessToken(testSecret, "", time.Minute)
	require.NoError(t, err)

	_, err = SubjectFromToken(raw, testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSubjectFromToken_WrongAlg(t *testing.T) {
	t.Parallel()

	// alg=none с валидной структурой не должен проходить проверку метода
	tkn := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	})
	raw, err := tkn.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = SubjectFromToken(raw, testSecret)
	require.ErrorIs(t, err, ErrInvalidToken)
}
