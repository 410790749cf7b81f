// SafarSafe - Tourist Safety Tracking and Alerting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/safarsafe

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/safarsafe/internal/config"
)

// Claims represents JWT claims. The subject is the tourist id and the ID
// (jti) identifies the token for revocation.
type Claims struct {
	jwt.RegisteredClaims
}

// TouristID returns the tourist the token was issued to.
func (c *Claims) TouristID() string {
	return c.Subject
}

// Expiry returns the expiration time, or the zero time when absent.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// JWTManager handles JWT token creation and validation
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewJWTManager creates a token manager signing with HMAC-SHA256.
//
// An empty secret is rejected here; length and placeholder checks happen in
// config validation so tests can use short secrets.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &JWTManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    ttl,
		issuer: cfg.TokenIssuer,
		now:    time.Now,
	}, nil
}

// GenerateToken issues a signed token for touristID, valid for the
// configured TTL. The returned claims carry the generated jti.
func (m *JWTManager) GenerateToken(touristID string) (string, *Claims, error) {
	if touristID == "" {
		return "", nil, fmt.Errorf("token subject is required")
	}

	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   touristID,
			Issuer:    m.issuer,
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateToken checks signature, algorithm, issuer and the time claims and
// returns the parsed claims. Tokens without a subject or jti are rejected.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("token is missing sub or jti")
	}
	return claims, nil
}
