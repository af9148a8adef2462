// internal/pkg/session/codec.go
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/bookstore-backend/internal/config"
)

// Claims represents the signed session cookie payload
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session cookies
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewCodec creates a new session cookie codec
func NewCodec(cfg *config.Config) *Codec {
	return &Codec{
		secret: []byte(cfg.Session.Secret),
		ttl:    cfg.Session.TTL,
		issuer: cfg.App.Name,
	}
}

// Sign produces a cookie value carrying the session ID
func (c *Codec) Sign(sessionID string) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    c.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Parse verifies a cookie value and returns the session ID it carries
func (c *Codec) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse session cookie: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session claims")
	}
	if claims.SessionID == "" {
		return "", fmt.Errorf("session id not specified")
	}

	return claims.SessionID, nil
}
