// Package auth issues and validates the HS256 tokens used by the server
// and hashes account passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/dailyroutine/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A token minted for one purpose is rejected for another.
const (
	PurposeAccess = "access"
	PurposeVerify = "verify"
)

// Claims carries the standard claims plus the user id and token purpose.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string
	Purpose string `json:"purpose,omitempty"`
}

// timeNow is a seam for tests.
var timeNow = time.Now

func generate(userID, purpose string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := timeNow()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID:  userID,
		Purpose: purpose,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

func parse(tokenString, purpose string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(timeNow))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" || claims.Purpose != purpose {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// GenerateToken mints an access token for userID.
func GenerateToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return generate(userID, PurposeAccess, secretKey, validityDuration)
}

// GetUserIDFromToken validates an access token and returns its user id.
// Expired tokens yield common.ErrTokenExpired, anything else invalid
// common.ErrInvalidToken.
func GetUserIDFromToken(tokenString string, secretKey []byte) (string, error) {
	return parse(tokenString, PurposeAccess, secretKey)
}

// GenerateVerifyToken mints the token embedded in account verification links.
func GenerateVerifyToken(userID string, secretKey []byte, validityDuration time.Duration) (string, error) {
	return generate(userID, PurposeVerify, secretKey, validityDuration)
}

func GetUserIDFromVerifyToken(tokenString string, secretKey []byte) (string, error) {
	return parse(tokenString, PurposeVerify, secretKey)
}
