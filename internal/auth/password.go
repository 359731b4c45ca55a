package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

// HashPassword derives a scrypt digest from the password under a fresh random
// salt and returns it as "hex(digest).hex(salt)". Two calls with the same
// password produce different values.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	digest, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(digest) + "." + hex.EncodeToString(salt), nil
}

// CheckPassword re-derives the digest from the candidate password and the
// stored salt and compares in constant time. A malformed stored value is
// treated as a mismatch.
func CheckPassword(password, stored string) bool {
	digestHex, saltHex, found := strings.Cut(stored, ".")
	if !found {
		return false
	}

	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	candidate, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(digest, candidate) == 1
}

// placeholderPassword returns a hash no one can log in with. Federated
// accounts get one so every user row carries a credential of some kind.
func placeholderPassword() *string {
	random := make([]byte, 32)
	rand.Read(random)
	hashed, err := HashPassword(hex.EncodeToString(random))
	if err != nil {
		return nil
	}
	return &hashed
}
