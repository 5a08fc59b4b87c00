package apperr

import (
	"errors"
	"net/http"
)

// Sentinel error kinds surfaced by services. Handlers never invent their own
// status codes; the fiber error handler maps these via Status.
var (
	// ErrNotFound means no record matched the lookup key.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized covers bad credentials and bad or expired tokens.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrPendingVerification is the distinguished sign-in failure for an
	// unverified account. A fresh verification code has been emailed as a
	// side effect by the time this error is returned.
	ErrPendingVerification = errors.New("account not verified, a verification code was sent to your email")
	// ErrInvalidOTP means the submitted code is absent or does not match.
	ErrInvalidOTP = errors.New("invalid OTP")
	// ErrExpiredOTP means the code matched but its TTL has passed.
	ErrExpiredOTP = errors.New("OTP has expired, please request a new one")
	// ErrInvalid means the request payload failed validation.
	ErrInvalid = errors.New("invalid input")
	// ErrConflict means a uniqueness constraint was violated.
	ErrConflict = errors.New("conflict")
	// ErrDelivery means the notification sink failed to accept the message.
	ErrDelivery = errors.New("notification delivery failed")
)

// Status maps a service error to an HTTP status code. The second return is
// false when the error carries no mapping and should be treated as internal.
func Status(err error) (int, bool) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, ErrInvalid):
		return http.StatusBadRequest, true
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, true
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrPendingVerification),
		errors.Is(err, ErrInvalidOTP),
		errors.Is(err, ErrExpiredOTP):
		return http.StatusUnauthorized, true
	case errors.Is(err, ErrDelivery):
		return http.StatusBadGateway, true
	default:
		return 0, false
	}
}
