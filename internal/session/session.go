// Package session issues and verifies the opaque client identities
// required at the connection boundary. An identity is a UUIDv4 minted
// on a client's first visit, carried in a cookie signed as an HS256
// JWT so clients cannot forge other identities. One identity covers
// every tab of the same browser session.
package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// CookieName is the cookie carrying the signed session token.
const CookieName = "roomcast_session"

// Claims are the JWT claims of a session token.
type Claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager mints and verifies session tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager builds a session manager. secret must be non-empty and
// stable across restarts or every client loses its identity.
func NewManager(secret []byte, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: secret, issuer: issuer, ttl: ttl}
}

// Issue mints a fresh identity and returns it with its signed token.
func (m *Manager) Issue() (identity, token string, err error) {
	identity = uuid.NewString()
	token, err = m.Sign(identity)
	return identity, token, err
}

// Sign produces a signed token for an existing identity.
func (m *Manager) Sign(identity string) (string, error) {
	now := time.Now()
	claims := Claims{
		SessionID: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify parses a token and returns the identity it carries.
func (m *Manager) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if m.issuer != "" && claims.Issuer != m.issuer {
		return "", fmt.Errorf("invalid issuer")
	}
	if claims.SessionID == "" {
		return "", fmt.Errorf("empty session id")
	}
	return claims.SessionID, nil
}
