package api

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyAcceptsStringAndNumericUserID(t *testing.T) {
	v := NewTokenVerifier(testJWTSecret)
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		userID interface{}
		want   UserID
	}{
		{"string", "42", "42"},
		{"integer", 7, "7"},
		{"large integer", int64(9007199254740993), "9007199254740993"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(sign(t, testJWTSecret, jwt.MapClaims{"user_id": tt.userID, "role": "admin", "exp": exp}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, claims.UserID)
			assert.Equal(t, "admin", claims.Role)
		})
	}
}

func TestVerifyRejects(t *testing.T) {
	v := NewTokenVerifier(testJWTSecret)
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name  string
		token string
	}{
		{"missing user_id", sign(t, testJWTSecret, jwt.MapClaims{"role": "admin", "exp": exp})},
		{"null user_id", sign(t, testJWTSecret, jwt.MapClaims{"user_id": nil, "exp": exp})},
		{"boolean user_id", sign(t, testJWTSecret, jwt.MapClaims{"user_id": true, "exp": exp})},
		{"expired", sign(t, testJWTSecret, jwt.MapClaims{"user_id": "7", "exp": time.Now().Add(-time.Hour).Unix()})},
		{"wrong secret", sign(t, "another-secret", jwt.MapClaims{"user_id": "7", "exp": exp})},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(tt.token)
			assert.Error(t, err)
		})
	}
}
