package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingCredentials is returned when no authorization value was sent.
	ErrMissingCredentials = errors.New("authorization required")
	// ErrMalformedCredentials is returned for anything but "Bearer <token>".
	ErrMalformedCredentials = errors.New("invalid authorization format")
	// ErrInvalidToken wraps every signature, algorithm and expiry failure.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// value. The scheme is matched case-insensitively.
func BearerToken(authorization string) (string, error) {
	if authorization == "" {
		return "", ErrMissingCredentials
	}
	scheme, token, found := strings.Cut(authorization, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMalformedCredentials
	}
	return token, nil
}

// VerifyHS256 checks an HS256 token signed with secret and returns its
// "sub" claim, which may be empty.
func VerifyHS256(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}
	subject, _ := token.Claims.GetSubject()
	return subject, nil
}
