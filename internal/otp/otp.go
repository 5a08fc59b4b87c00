// Package otp issues and validates single-use numeric codes bound to an
// email address.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"time"

	"github.com/authbase/authbase/internal/apperr"
	"github.com/authbase/authbase/internal/notification"
	"github.com/authbase/authbase/internal/user"
)

// Purpose selects the email template and subject for an issued code.
type Purpose string

const (
	PurposeVerify Purpose = "verify"
	PurposeReset  Purpose = "reset"
)

const codeDigits = 6

// Manager drives the OTP lifecycle: generate, store, deliver, validate.
// There is no locking around issue/validate; concurrent calls for the same
// email race at the store with last-write-wins semantics.
type Manager struct {
	users    user.Repository
	notifier notification.Notifier
	ttl      time.Duration
	logger   *slog.Logger

	// Now is the clock used for expiry; overridable in tests.
	Now func() time.Time
}

// NewManager creates an OTP lifecycle manager.
func NewManager(users user.Repository, notifier notification.Notifier, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		users:    users,
		notifier: notifier,
		ttl:      ttl,
		logger:   logger,
		Now:      time.Now,
	}
}

// Issue generates a fresh code, persists it onto the user record and emails
// it. If delivery fails the stored code is rolled back (best effort) so a
// code nobody received is never left live, and ErrDelivery is returned.
func (m *Manager) Issue(ctx context.Context, email string, purpose Purpose) error {
	email = user.NormalizeEmail(email)

	u, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	challenge := user.OTPChallenge{Code: code, ExpiresAt: m.Now().Add(m.ttl).UTC()}
	if _, err := m.users.UpdateByEmail(ctx, email, user.Update{SetOTP: &challenge}); err != nil {
		return err
	}

	msg := notification.Message{
		To:      email,
		Context: map[string]string{"otp": code, "name": u.Name, "ttl": formatTTL(m.ttl)},
	}
	switch purpose {
	case PurposeReset:
		msg.Template = notification.TemplateResetPassword
		msg.Subject = notification.SubjectResetPassword
	default:
		msg.Template = notification.TemplateVerifyAccount
		msg.Subject = notification.SubjectVerifyAccount
	}

	if err := m.notifier.Send(ctx, msg); err != nil {
		if _, clearErr := m.users.UpdateByEmail(ctx, email, user.Update{ClearOTP: true}); clearErr != nil {
			m.logger.Warn("otp rollback failed", "email", email, "error", clearErr)
		}
		return fmt.Errorf("%w: %v", apperr.ErrDelivery, err)
	}

	m.logger.Info("otp issued", "email", email, "purpose", string(purpose), "expires_at", challenge.ExpiresAt)
	return nil
}

// Validate checks a submitted code. On success the stored code is cleared
// in the same update, so each issued code validates at most once, and the
// updated user record is returned.
func (m *Manager) Validate(ctx context.Context, email, code string) (user.User, error) {
	email = user.NormalizeEmail(email)

	u, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return user.User{}, err
	}
	if u.OTPCode == nil || code == "" || *u.OTPCode != code {
		return user.User{}, apperr.ErrInvalidOTP
	}
	if u.OTPExpiresAt == nil || m.Now().After(*u.OTPExpiresAt) {
		return user.User{}, apperr.ErrExpiredOTP
	}

	return m.users.UpdateByEmail(ctx, email, user.Update{ClearOTP: true})
}

func generateCode() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	n := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	return fmt.Sprintf("%0*d", codeDigits, n%1000000), nil
}

func formatTTL(ttl time.Duration) string {
	if minutes := int(ttl.Minutes()); minutes >= 1 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	return ttl.String()
}
