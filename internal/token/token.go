// Package token signs and verifies the bearer tokens used by the auth flows.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authbase/authbase/internal/apperr"
	"github.com/authbase/authbase/internal/user"
)

// Claims is the claim set carried by both token variants. Subject holds the
// user id.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 tokens. Access and refresh tokens share
// the claim shape but differ in TTL and signing secret.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer builds a token issuer with the two TTL presets.
func NewIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessToken issues a short-lived token for the user.
func (i *Issuer) AccessToken(u user.User) (string, error) {
	return i.sign(u, i.accessSecret, i.accessTTL)
}

// RefreshToken issues a long-lived token for the user.
func (i *Issuer) RefreshToken(u user.User) (string, error) {
	return i.sign(u, i.refreshSecret, i.refreshTTL)
}

// VerifyAccess checks an access token and returns its claims.
func (i *Issuer) VerifyAccess(tok string) (*Claims, error) {
	return verify(tok, i.accessSecret)
}

// VerifyRefresh checks a refresh token and returns its claims.
func (i *Issuer) VerifyRefresh(tok string) (*Claims, error) {
	return verify(tok, i.refreshSecret)
}

func (i *Issuer) sign(u user.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if u.Image != nil {
		claims.Image = *u.Image
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func verify(tok string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tok, &Claims{}, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, fmt.Errorf("%w: malformed claims", apperr.ErrUnauthorized)
	}
	return claims, nil
}
