package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/vasiliy-maslov/storefront/internal/config"
)

// Authenticator checks the admin credential against the configured
// plaintext secret and any bcrypt hashes.
type Authenticator struct {
	secretDigest []byte
	hashes       [][]byte
}

func NewAuthenticator(cfg config.AdminConfig) *Authenticator {
	a := &Authenticator{}
	if cfg.Password != "" {
		digest := sha256.Sum256([]byte(cfg.Password))
		a.secretDigest = digest[:]
	}
	for _, h := range cfg.PasswordHashes {
		a.hashes = append(a.hashes, []byte(h))
	}
	return a
}

func (a *Authenticator) Verify(password string) bool {
	if password == "" {
		return false
	}
	if a.secretDigest != nil {
		// Digests have equal length, so the comparison time does not depend on the input.
		digest := sha256.Sum256([]byte(password))
		if subtle.ConstantTimeCompare(digest[:], a.secretDigest) == 1 {
			return true
		}
	}
	for _, h := range a.hashes {
		if bcrypt.CompareHashAndPassword(h, []byte(password)) == nil {
			return true
		}
	}
	return false
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
