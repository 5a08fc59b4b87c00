// Package auth orchestrates the account verification state machine:
// sign-in, OTP verification, token refresh and password reset.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/authbase/authbase/internal/apperr"
	"github.com/authbase/authbase/internal/otp"
	"github.com/authbase/authbase/internal/password"
	"github.com/authbase/authbase/internal/token"
	"github.com/authbase/authbase/internal/user"
)

// Service composes the credential store, hasher, OTP manager and token
// issuer into the public auth operations.
type Service struct {
	users  *user.Service
	hasher password.Hasher
	otps   *otp.Manager
	tokens *token.Issuer
	logger *slog.Logger
}

// NewService wires the auth orchestrator.
func NewService(users *user.Service, hasher password.Hasher, otps *otp.Manager, tokens *token.Issuer, logger *slog.Logger) *Service {
	return &Service{users: users, hasher: hasher, otps: otps, tokens: tokens, logger: logger}
}

// TokenPair is the access/refresh pair returned to signed-in clients.
type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// VerifyResult reports the outcome of an OTP verification. Tokens is set
// only for the verify purpose, so the client is signed in immediately after
// confirming the email.
type VerifyResult struct {
	Message string
	Tokens  *TokenPair
}

// Register creates an unverified account and emails a verification code.
func (s *Service) Register(ctx context.Context, in user.CreateInput) (user.User, error) {
	u, err := s.users.Create(ctx, in)
	if err != nil {
		return user.User{}, err
	}
	if err := s.otps.Issue(ctx, u.Email, otp.PurposeVerify); err != nil {
		return user.User{}, err
	}
	return u, nil
}

// SignIn checks credentials. An unverified account gets a fresh
// verification code emailed and fails with ErrPendingVerification instead
// of tokens.
func (s *Service) SignIn(ctx context.Context, email, pw string) (TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if !s.hasher.Compare(u.PasswordHash, pw) {
		return TokenPair{}, fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}

	if !u.IsVerified {
		if err := s.otps.Issue(ctx, u.Email, otp.PurposeVerify); err != nil {
			return TokenPair{}, err
		}
		return TokenPair{}, apperr.ErrPendingVerification
	}

	return s.pair(u)
}

// VerifyOTP validates a submitted code. Purpose "verify" additionally
// flips the verification flag and returns a token pair; purpose "reset"
// leaves the flag untouched and signals the client to proceed to reset.
func (s *Service) VerifyOTP(ctx context.Context, email, code string, purpose otp.Purpose) (VerifyResult, error) {
	u, err := s.otps.Validate(ctx, email, code)
	if err != nil {
		return VerifyResult{}, err
	}

	if purpose == otp.PurposeReset {
		return VerifyResult{Message: "OTP verified successfully, proceed with password reset"}, nil
	}

	if u.IsVerified {
		return VerifyResult{}, fmt.Errorf("%w: email is already verified", apperr.ErrUnauthorized)
	}
	verified, err := s.users.MarkVerified(ctx, u.Email)
	if err != nil {
		return VerifyResult{}, err
	}
	pair, err := s.pair(verified)
	if err != nil {
		return VerifyResult{}, err
	}
	s.logger.Info("email verified", "email", verified.Email)
	return VerifyResult{Message: "Email verified successfully", Tokens: &pair}, nil
}

// ResendOTP re-issues a verification code. It succeeds for verified
// accounts too, so clients can retry without inspecting account state.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	return s.otps.Issue(ctx, email, otp.PurposeVerify)
}

// RefreshToken mints a new access token for a valid refresh token. The
// presented refresh token is echoed back unchanged; rotation is not
// performed.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.users.Get(ctx, claims.Subject)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: user not found", apperr.ErrUnauthorized)
	}
	access, err := s.tokens.AccessToken(u)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Token: access, RefreshToken: refreshToken}, nil
}

// ForgetPassword emails a reset-purpose code to an existing account.
func (s *Service) ForgetPassword(ctx context.Context, email string) error {
	return s.otps.Issue(ctx, email, otp.PurposeReset)
}

// ResetPassword overwrites the stored hash. It trusts that the caller
// sequenced VerifyOTP with the reset purpose first; the HTTP contract
// carries no reset ticket.
func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) error {
	return s.users.SetPassword(ctx, email, newPassword)
}

func (s *Service) pair(u user.User) (TokenPair, error) {
	access, err := s.tokens.AccessToken(u)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.RefreshToken(u)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Token: access, RefreshToken: refresh}, nil
}
