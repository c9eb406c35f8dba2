package services

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/convite-api/internal/auth"
	"github.com/gravadigital/convite-api/internal/logger"
)

// AuthService signs in the couple to the admin area
type AuthService struct {
	issuer       *auth.Issuer
	adminEmail   string
	passwordHash string
	ttl          time.Duration
	log          *log.Logger
}

// NewAuthService creates a new auth service for the configured admin account
func NewAuthService(issuer *auth.Issuer, adminEmail, passwordHash string, ttl time.Duration) *AuthService {
	return &AuthService{
		issuer:       issuer,
		adminEmail:   strings.ToLower(strings.TrimSpace(adminEmail)),
		passwordHash: passwordHash,
		ttl:          ttl,
		log:          logger.Service("auth"),
	}
}

// LoginRequest is the admin sign-in form
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult carries the admin token
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login checks the admin credentials and issues an admin-scope token
func (s *AuthService) Login(_ context.Context, req LoginRequest) (*LoginResult, error) {
	if s.adminEmail == "" || s.passwordHash == "" {
		s.log.Warn("Admin login attempted without a configured account")
		return nil, auth.ErrInvalidCredentials
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	passwordErr := auth.CheckPassword(s.passwordHash, req.Password)
	if email != s.adminEmail || passwordErr != nil {
		s.log.Warn("Admin login rejected", "email", email)
		return nil, auth.ErrInvalidCredentials
	}

	token, expiresAt, err := s.issuer.Issue(email, auth.ScopeAdmin, s.ttl)
	if err != nil {
		return nil, err
	}

	s.log.Info("Admin signed in", "email", email)
	return &LoginResult{Token: token, ExpiresAt: expiresAt}, nil
}
