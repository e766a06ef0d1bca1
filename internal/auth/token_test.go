package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, role string, roleSelected bool) string {
	t.Helper()

	claims := CustomClaims{
		UserID:       1,
		Email:        "test@example.com",
		Role:         role,
		RoleSelected: roleSelected,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("testsecret"))
	require.NoError(t, err)
	return signed
}

func TestDecodeToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		tokenStr := signedToken(t, "Collector", true)

		claims, err := DecodeToken(tokenStr)
		assert.NoError(t, err)
		assert.NotNil(t, claims)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, "test@example.com", claims.Email)
		assert.Equal(t, "Collector", claims.Role)
		assert.True(t, claims.RoleSelected)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := DecodeToken("")
		assert.ErrorIs(t, err, ErrDecodeToken)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := DecodeToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrDecodeToken)
	})
}

func TestDecodeRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, DecodeRole(signedToken(t, "Admin", true)))
	assert.Equal(t, RoleUser, DecodeRole(signedToken(t, "User", true)))

	// Unknown role strings collapse to RoleNone.
	assert.Equal(t, RoleNone, DecodeRole(signedToken(t, "Superuser", true)))

	// Malformed tokens collapse to RoleNone.
	assert.Equal(t, RoleNone, DecodeRole("garbage"))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleCollector, ParseRole("Collector"))
	// Casing differs between token issuers; folding keeps them equivalent.
	assert.Equal(t, RoleCollector, ParseRole("collector"))
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleNone, ParseRole("Superuser"))
	assert.Equal(t, RoleNone, ParseRole(""))
}

func TestExpiresAt(t *testing.T) {
	claims, err := DecodeToken(signedToken(t, "User", false))
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(24*time.Hour), ExpiresAt(claims), time.Minute)
	assert.True(t, ExpiresAt(nil).IsZero())
	assert.True(t, ExpiresAt(&CustomClaims{}).IsZero())
}
