// Package auth issues and verifies the bearer tokens carried by API clients.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")
)

// Claims identifies the user a token was issued to.
type Claims struct {
	UserID    uint64
	TokenID   string
	ExpiresAt time.Time
}

// TokenManager signs and parses HS256 tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source; used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue returns a signed token for userID.
func (m *TokenManager) Issue(userID uint64) (string, Claims, error) {
	now := m.now()
	claims := Claims{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(userID, 10),
		ID:        claims.TokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// Parse verifies the signature and expiry of raw.
func (m *TokenManager) Parse(raw string) (Claims, error) {
	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &registered, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}

	userID, err := strconv.ParseUint(registered.Subject, 10, 64)
	if err != nil || userID == 0 || registered.ID == "" {
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		UserID:    userID,
		TokenID:   registered.ID,
		ExpiresAt: registered.ExpiresAt.Time,
	}, nil
}
