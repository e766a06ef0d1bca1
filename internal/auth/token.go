package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CustomClaims is the payload the backend encodes into the bearer
// token. The client reads it without verifying the signature; the
// backend stays the source of truth for validity.
type CustomClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	Role         string `json:"role"`
	RoleSelected bool   `json:"role_selected"`
	jwt.RegisteredClaims
}

var ErrDecodeToken = errors.New("malformed token")

// DecodeToken parses the claims out of a bearer token. It performs no
// signature or expiry validation; a token the backend has revoked is
// only discovered when a request comes back 401.
func DecodeToken(tokenStr string) (*CustomClaims, error) {
	if tokenStr == "" {
		return nil, ErrDecodeToken
	}

	claims := &CustomClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrDecodeToken
	}

	return claims, nil
}

// DecodeRole extracts just the role from a token, collapsing malformed
// tokens and unknown role strings to RoleNone.
func DecodeRole(tokenStr string) Role {
	claims, err := DecodeToken(tokenStr)
	if err != nil {
		return RoleNone
	}
	return ParseRole(claims.Role)
}

// ExpiresAt reports the token's expiry claim, zero when absent. Used
// for diagnostics only; the client never rejects a token locally.
func ExpiresAt(claims *CustomClaims) time.Time {
	if claims == nil || claims.RegisteredClaims.ExpiresAt == nil {
		return time.Time{}
	}
	return claims.RegisteredClaims.ExpiresAt.Time
}
