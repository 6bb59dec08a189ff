package crypto

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. These match the hashes already present in the user
// store, so existing accounts keep working.
const (
	saltBytes  = 16
	iterations = 1000
	keyLength  = 64
)

// HashPassword derives a PBKDF2-SHA512 hash with a fresh random salt and
// returns it as "salt:hash" (both hex encoded).
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}

	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	salt := hex.EncodeToString(raw)

	hash := pbkdf2.Key([]byte(password), []byte(salt), iterations, keyLength, sha512.New)
	return salt + ":" + hex.EncodeToString(hash), nil
}

// CheckPassword re-derives the hash with the stored salt and compares in
// constant time. Any malformed stored value fails verification.
func CheckPassword(password, stored string) bool {
	if password == "" || stored == "" {
		return false
	}

	parts := strings.SplitN(stored, ":", 2)
	if len(parts) != 2 {
		return false
	}
	expected, err := hex.DecodeString(parts[1])
	if err != nil {
		return false
	}

	hash := pbkdf2.Key([]byte(password), []byte(parts[0]), iterations, len(expected), sha512.New)
	return subtle.ConstantTimeCompare(hash, expected) == 1
}

// RandomToken returns n random bytes hex encoded, used for password reset
// links.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
