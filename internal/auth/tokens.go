// Package auth issues and checks the bearer tokens of the admin area and
// the password-gated wedding party manual.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope limits what a token grants
type Scope string

const (
	ScopeAdmin  Scope = "admin"
	ScopeManual Scope = "manual"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInsufficientScope  = errors.New("token does not grant this scope")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Claims is the JWT payload
type Claims struct {
	Scope Scope `json:"scope"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens
type Issuer struct {
	secret []byte
	now    func() time.Time
}

// NewIssuer creates an issuer with the shared secret
func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for subject with the given scope and lifetime
func (i *Issuer) Issue(subject string, scope Scope, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies the signature and expiry of a token
func (i *Issuer) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Require parses raw and checks that it grants scope. An admin token
// also opens the manual.
func (i *Issuer) Require(raw string, scope Scope) (*Claims, error) {
	claims, err := i.Parse(raw)
	if err != nil {
		return nil, err
	}
	if claims.Scope != scope && !(scope == ScopeManual && claims.Scope == ScopeAdmin) {
		return nil, ErrInsufficientScope
	}
	return claims, nil
}
