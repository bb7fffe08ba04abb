package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"Bearer", "Bearer abc", "abc", nil},
		{"LowercaseScheme", "bearer abc", "abc", nil},
		{"Missing", "", "", ErrMissingCredentials},
		{"NoToken", "Bearer ", "", ErrMalformedCredentials},
		{"WrongScheme", "Basic abc", "", ErrMalformedCredentials},
		{"NoSpace", "Bearerabc", "", ErrMalformedCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVerifyHS256(t *testing.T) {
	secret := []byte("s3cret")

	t.Run("ValidReturnsSubject", func(t *testing.T) {
		tok := signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
			"sub": "operator",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		sub, err := VerifyHS256(tok, secret)
		require.NoError(t, err)
		assert.Equal(t, "operator", sub)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		tok := signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "operator"})
		_, err := VerifyHS256(tok, secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		tok := signed(t, jwt.SigningMethodHS256, secret, jwt.MapClaims{
			"sub": "operator",
			"exp": time.Now().Add(-time.Minute).Unix(),
		})
		_, err := VerifyHS256(tok, secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("OtherAlgorithmRejected", func(t *testing.T) {
		tok := signed(t, jwt.SigningMethodHS512, secret, jwt.MapClaims{"sub": "operator"})
		_, err := VerifyHS256(tok, secret)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
