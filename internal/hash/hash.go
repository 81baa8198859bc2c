package hash

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2-SHA256 вместо bcrypt: у bcrypt потолок в 72 байта пароля,
// здесь длина пароля не ограничена.
const (
	rounds  = 29000
	saltLen = 16
	keyLen  = 32
)

var b64 = base64.RawStdEncoding

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("hash: cannot read random salt: %w", err)
	}
	key := pbkdf2.Key([]byte(password), salt, rounds, keyLen, sha256.New)
	return fmt.Sprintf("$pbkdf2-sha256$%d$%s$%s", rounds, b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// CheckPassword сверяет пароль с сохранённым хэшем. Любой битый или
// чужой формат хэша — просто false, без ошибок наружу.
func CheckPassword(stored, password string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 5 || parts[0] != "" || parts[1] != "pbkdf2-sha256" {
		return false
	}
	iter, err := strconv.Atoi(parts[2])
	if err != nil || iter < 1 {
		return false
	}
	salt, err := b64.DecodeString(parts[3])
	if err != nil {
		return false
	}
	want, err := b64.DecodeString(parts[4])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(password), salt, iter, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
