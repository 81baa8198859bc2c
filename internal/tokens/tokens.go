package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL — срок жизни access-токена, как в исходной системе.
const DefaultTTL = 30 * time.Minute

var ErrInvalidToken = errors.New("invalid access token")

type AccessClaims struct {
	jwt.RegisteredClaims
}

// NewAccessToken подписывает HS256-токен с subject=username и exp=now+ttl.
// При ttl <= 0 берётся DefaultTTL.
func NewAccessToken(secret []byte, username string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}

// SubjectFromToken проверяет подпись и срок действия и возвращает
// username из токена. Любая причина отказа (битый токен, чужой секрет,
// чужой алгоритм, истёкший exp) сворачивается в ErrInvalidToken.
func SubjectFromToken(raw string, secret []byte) (string, error) {
	var claims AccessClaims
	tkn, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
