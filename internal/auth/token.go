package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ParseStaffToken validates a bearer token and returns its claims.
func ParseStaffToken(secret, token string) (*StaffClaims, error) {
	claims := &StaffClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !parsed.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
