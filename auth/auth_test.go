package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MySuperSafePassw0rd!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword1!", hash)
	req.NoError(err)
	req.False(match)
}

func TestTokenRoundTrip(t *testing.T) {
	req := require.New(t)
	tokens := NewTokenManager("test-secret", time.Hour)

	signed, err := tokens.GenerateToken("11111111-1111-1111-1111-111111111111", []string{"user"})
	req.NoError(err)

	claims, err := tokens.ValidateToken(signed)
	req.NoError(err)
	req.Equal("11111111-1111-1111-1111-111111111111", claims.UserID)
	req.Equal([]string{"user"}, claims.Roles)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	req := require.New(t)
	tokens := NewTokenManager("test-secret", time.Hour)
	others := NewTokenManager("another-secret", time.Hour)

	signed, err := tokens.GenerateToken("u1", nil)
	req.NoError(err)

	_, err = others.ValidateToken(signed)
	req.Error(err)
}

func TestTokenRejectsExpired(t *testing.T) {
	req := require.New(t)
	tokens := NewTokenManager("test-secret", -time.Minute)

	signed, err := tokens.GenerateToken("u1", nil)
	req.NoError(err)

	_, err = tokens.ValidateToken(signed)
	req.Error(err)
}

func TestAccountValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     AccountRequest
		wantErr bool
	}{
		{"Valid request", AccountRequest{"test@example.com", "Alice", "ComplexPass123!"}, false},
		{"Invalid email", AccountRequest{"notanemail", "Alice", "ComplexPass123!"}, true},
		{"Missing name", AccountRequest{"test@example.com", "", "ComplexPass123!"}, true},
		{"Password too short", AccountRequest{"test@example.com", "Alice", "Short1!"}, true},
		{"Missing digit", AccountRequest{"test@example.com", "Alice", "NoDigitPassword!"}, true},
		{"Missing special char", AccountRequest{"test@example.com", "Alice", "NoSpecialChar123"}, true},
		{"Missing uppercase", AccountRequest{"test@example.com", "Alice", "nouppercase123!"}, true},
		{"Password too long (edge case)", AccountRequest{"test@example.com", "Alice", strings.Repeat("a", 73)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccount(tt.req)
			if tt.wantErr {
				req.Error(err)
			} else {
				req.NoError(err)
			}
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
