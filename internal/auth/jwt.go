package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the HTTP-only cookie carrying the session token.
const CookieName = "OutSiteJWT"

const tokenTTL = 24 * time.Hour

var jwtKey []byte

// Init sets the signing key. Must run before any token is minted or checked.
func Init(secret string) {
	jwtKey = []byte(secret)
}

// Claims is what rides inside the token.
type Claims struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed JWT for a user.
func GenerateToken(id uint, username, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:       id,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey)
}

// ValidateToken checks signature and expiry and returns the claims.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
