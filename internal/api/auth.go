package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// UserID is the user_id claim. Backends issue it either as a JSON string or
// as a number; both decode to the same text.
type UserID string

func (u *UserID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*u = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*u = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user_id is neither a string nor a number: %w", err)
	}
	*u = UserID(n.String())
	return nil
}

// Claims are the auth token claims the storefront reads
type Claims struct {
	UserID UserID `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier checks HS256 auth tokens
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for tokens signed with secret
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify parses a token and returns its claims. Expired tokens and tokens
// without a user id are rejected.
func (v *TokenVerifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user_id")
	}
	return claims, nil
}

// bearerToken extracts the token from an "Authorization: Bearer" header value.
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
