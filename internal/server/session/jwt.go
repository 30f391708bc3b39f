package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkoval/companyportal/internal/common"
)

// The session cookie does not carry the raw store key: the id is wrapped in
// a signed HS256 token so clients cannot probe the store with forged ids.

type sessionClaims struct {
	jwt.RegisteredClaims
	SessionID string
}

// SignSessionID wraps a session id in a signed token suitable for a cookie
// value. Session lifetime is governed by the server-side store, so the token
// itself carries no expiry.
func SignSessionID(sessionID string, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SessionIDFromToken verifies the signature and extracts the session id.
// Malformed or tampered tokens yield common.ErrorTokenInvalid.
func SessionIDFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return "", common.ErrorTokenInvalid
	}

	if !token.Valid || claims.SessionID == "" {
		return "", common.ErrorTokenInvalid
	}

	return claims.SessionID, nil
}
