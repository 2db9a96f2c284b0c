// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package auth implements the demo login stub: a hard-coded admin
// credential check issuing signed HS256 tokens. It exists so the upload
// attribution path has an authenticated identity to consume; it is not a
// real authentication system.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pdiddy/biodata-hub/pkg/apperrors"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// Demo fallbacks, matching the original stub. Override via .secrets/ or
// configuration before exposing the server anywhere that matters.
const (
	defaultAdminUser     = "admin"
	defaultAdminPassword = "admin123"
	defaultSecret        = "your-secret-key-change-in-production"
	defaultTokenTTL      = 24 * time.Hour
)

// Identity is the authenticated principal attached to requests.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Claims is the token payload.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues and verifies tokens.
type Service struct {
	secret        []byte
	adminUser     string
	adminPassword string
	ttl           time.Duration
}

// NewService builds a Service from cfg, filling demo defaults for any
// unset field.
func NewService(cfg types.AuthConfig) *Service {
	secret := cfg.Secret
	if secret == "" {
		secret = defaultSecret
	}
	adminUser := cfg.AdminUser
	if adminUser == "" {
		adminUser = defaultAdminUser
	}
	adminPassword := cfg.AdminPassword
	if adminPassword == "" {
		adminPassword = defaultAdminPassword
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &Service{
		secret:        []byte(secret),
		adminUser:     adminUser,
		adminPassword: adminPassword,
		ttl:           ttl,
	}
}

// Login checks the demo credentials and returns a signed token plus the
// granted role. Matching the admin credentials grants admin; any other
// non-empty pair is allowed in with the user role, which is the original
// stub's demo behavior. Missing fields yield ErrValidation.
func (s *Service) Login(username, password string) (token, role string, err error) {
	if username == "" || password == "" {
		return "", "", fmt.Errorf("%w: username and password required", apperrors.ErrValidation)
	}

	role = "user"
	if username == s.adminUser && password == s.adminPassword {
		role = "admin"
	}

	token, err = s.IssueToken(username, role)
	if err != nil {
		return "", "", err
	}
	return token, role, nil
}

// IssueToken signs a token for the given principal.
func (s *Service) IssueToken(username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses tokenString and returns the identity it carries. Expired,
// malformed, or wrongly-signed tokens are rejected.
func (s *Service) Verify(tokenString string) (*Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	role := claims.Role
	if role == "" {
		role = "user"
	}
	return &Identity{Username: claims.Username, Role: role}, nil
}
