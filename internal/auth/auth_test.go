// server/internal/auth/auth_test.go
package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("123456")
	assert.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.True(t, CheckPasswordHash("123456", hash))
	assert.False(t, CheckPasswordHash("wrongpassword", hash))
}

func TestJWTRoundtrip(t *testing.T) {
	secret := []byte("unit-test-secret")

	token, err := GenerateJWT(secret, time.Hour, "5c8a1d5b0190b214360dc032", "publisher")
	assert.NoError(t, err)

	claims, err := ParseJWT(secret, token)
	assert.NoError(t, err)
	assert.Equal(t, "5c8a1d5b0190b214360dc032", claims.UserID)
	assert.Equal(t, "publisher", claims.Role)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT([]byte("secret-a"), time.Hour, "abc", "user")
	assert.NoError(t, err)

	_, err = ParseJWT([]byte("secret-b"), token)
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	secret := []byte("unit-test-secret")

	token, err := GenerateJWT(secret, -time.Minute, "abc", "user")
	assert.NoError(t, err)

	_, err = ParseJWT(secret, token)
	assert.Error(t, err)
}

func TestNewResetToken(t *testing.T) {
	raw, hashed := NewResetToken()

	assert.NotEmpty(t, raw)
	assert.NotContains(t, raw, "-")
	assert.Len(t, hashed, 64)
	assert.Equal(t, HashToken(raw), hashed)
	assert.NotEqual(t, raw, hashed)

	raw2, _ := NewResetToken()
	assert.NotEqual(t, raw, raw2)
}
