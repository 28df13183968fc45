package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vasiliy-maslov/storefront/internal/auth"
	"github.com/vasiliy-maslov/storefront/internal/config"
)

func TestAuthenticator_Verify(t *testing.T) {
	rotated, err := auth.HashPassword("new-secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		cfg      config.AdminConfig
		password string
		want     bool
	}{
		{"plaintext match", config.AdminConfig{Password: "admin123"}, "admin123", true},
		{"plaintext mismatch", config.AdminConfig{Password: "admin123"}, "admin1234", false},
		{"empty password never matches", config.AdminConfig{Password: "admin123"}, "", false},
		{"hash match", config.AdminConfig{PasswordHashes: []string{rotated}}, "new-secret", true},
		{"old plaintext during rotation", config.AdminConfig{Password: "admin123", PasswordHashes: []string{rotated}}, "admin123", true},
		{"new hash during rotation", config.AdminConfig{Password: "admin123", PasswordHashes: []string{rotated}}, "new-secret", true},
		{"hash mismatch", config.AdminConfig{PasswordHashes: []string{rotated}}, "admin123", false},
		{"garbage hash ignored", config.AdminConfig{PasswordHashes: []string{"not-a-hash"}}, "not-a-hash", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, auth.NewAuthenticator(tt.cfg).Verify(tt.password))
		})
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = auth.HashPassword("")
	require.Error(t, err)
}
