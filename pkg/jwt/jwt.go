package jwt

import (
	"errors"

	jwt2 "github.com/golang-jwt/jwt/v5"
)

type userClaimKeyType string

// UserClaimKey is the context key under which parsed claims are stored
const UserClaimKey userClaimKeyType = "user-claims"

var ErrInvalidToken = errors.New("invalid token")

// UserClaims carries the authenticated user identity inside tokens
type UserClaims struct {
	jwt2.RegisteredClaims
	UserID string `json:"user_id"`
}

// CreateToken signs the claims with the given secret using HS512
func CreateToken(secret []byte, claims *UserClaims) (string, error) {
	return jwt2.NewWithClaims(jwt2.SigningMethodHS512, claims).SignedString(secret)
}

// ParseToken validates the token string and returns its claims
func ParseToken(tokenString string, secret []byte) (*UserClaims, error) {
	token, err := jwt2.ParseWithClaims(tokenString, &UserClaims{}, func(t *jwt2.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
