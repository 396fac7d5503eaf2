package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
)

const (
	// DefaultReconnectExpiration is the lifetime of a reconnection token when none is configured.
	DefaultReconnectExpiration = 12 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "Scum-Server"
)

// ErrSessionMismatch is returned when a valid token names another user or table session.
var ErrSessionMismatch = errors.New("token does not belong to this session")

// GenerateToken signs a new reconnection token for the payload.
func GenerateToken(payload *Payload, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	payload.StandardClaims = jwt.StandardClaims{
		Id:        uuid.NewString(),
		ExpiresAt: now.Add(duration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates the token string using the provided secretKey.
func ParseToken(tokenString string, secretKey string) (*Payload, error) {
	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

// VerifyReconnect parses the token and checks it was issued to username by sessionID.
func VerifyReconnect(tokenString, secretKey, username, sessionID string) (*Payload, error) {
	payload, err := ParseToken(tokenString, secretKey)
	if err != nil {
		return nil, err
	}

	if payload.Username != username || payload.SessionID != sessionID {
		return nil, ErrSessionMismatch
	}

	return payload, nil
}
