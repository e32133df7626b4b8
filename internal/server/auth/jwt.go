// Package auth implements issuance and verification of the signed access and
// refresh tokens. Both tokens are HS256 JWTs signed with a single shared
// secret; they differ only in lifetime.
package auth

import (
	"fmt"
	"time"

	"github.com/dormdeals/dormdeals/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the typed token payload. Verification rejects tokens whose
// decoded payload does not carry a positive UserID and a non-empty Email,
// rather than trusting arbitrary JSON.
type Claims struct {
	UserID       int64  `json:"userId"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	UniversityID int64  `json:"universityId"`
	jwt.RegisteredClaims
}

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Manager signs and verifies token pairs.
type Manager struct {
	secret          []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
}

// NewManager constructs a Manager with the given shared secret and lifetimes.
func NewManager(secret []byte, accessValidity, refreshValidity time.Duration) *Manager {
	return &Manager{secret: secret, accessValidity: accessValidity, refreshValidity: refreshValidity}
}

// Issue signs two independent tokens from the same claims with different
// expiries. Signing failures are internal errors; there is no other error
// path.
func (m *Manager) Issue(userID int64, email, name string, universityID int64) (*TokenPair, error) {
	access, err := m.sign(userID, email, name, universityID, m.accessValidity)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(userID, email, name, universityID, m.refreshValidity)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Verify checks signature, expiry, and payload shape. Every failure mode
// collapses into common.ErrInvalidToken; callers only learn success/failure.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.UserID <= 0 || claims.Email == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) sign(userID int64, email, name string, universityID int64, validity time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:       userID,
		Email:        email,
		Name:         name,
		UniversityID: universityID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("token signing error: %w", err)
	}
	return signed, nil
}
