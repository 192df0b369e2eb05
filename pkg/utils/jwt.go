package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// GenerateJWT signs a token whose payload carries only the user id.
func GenerateJWT(userID string, secret []byte, expiry time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  userID,
		"exp": time.Now().Add(expiry).Unix(),
	})
	return token.SignedString(secret)
}

// DecodeJWT verifies the signature and expiry and returns the user id claim.
func DecodeJWT(token string, secret []byte) (string, error) {
	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return "", ErrInvalidToken
	}

	id, ok := claims["id"].(string)
	if !ok {
		return "", ErrInvalidToken
	}

	return id, nil
}
