package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// TokenClaims are the identity fields carried by a session token.
type TokenClaims struct {
	UserID   string
	Email    string
	UserType string
	DeviceID string
}

// GenerateToken creates a signed HS256 JWT for the given identity.
func GenerateToken(secret []byte, claims TokenClaims, duration time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("session secret is not configured")
	}
	now := time.Now()
	mc := jwt.MapClaims{
		"sub":    claims.UserID,
		"email":  claims.Email,
		"type":   claims.UserType,
		"device": claims.DeviceID,
		"iat":    now.Unix(),
		"exp":    now.Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mc)
	return token.SignedString(secret)
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(secret []byte, tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Ensure that the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// ParseToken validates the token and extracts its identity claims.
func ParseToken(secret []byte, tokenString string) (*TokenClaims, error) {
	token, err := ValidateToken(secret, tokenString)
	if err != nil {
		return nil, err
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("token does not contain a valid 'sub' claim")
	}
	claims := &TokenClaims{UserID: sub}
	claims.Email, _ = mc["email"].(string)
	claims.UserType, _ = mc["type"].(string)
	claims.DeviceID, _ = mc["device"].(string)
	return claims, nil
}
