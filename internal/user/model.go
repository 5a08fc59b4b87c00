package user

import "time"

// User is an account record. Email is the lookup key for all auth flows and
// is stored lowercased. OTPCode and OTPExpiresAt are always both set or both
// nil; a non-nil pair means an OTP challenge is outstanding.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash []byte
	IsVerified   bool
	OTPCode      *string
	OTPExpiresAt *time.Time
	Image        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OTPChallenge is the stored half of an outstanding one-time code.
type OTPChallenge struct {
	Code      string
	ExpiresAt time.Time
}

// CreateInput carries the fields accepted at registration.
type CreateInput struct {
	Email    string
	Name     string
	Password string
	Image    *string
}

// UpdateInput carries the fields a client may patch. Nil means untouched.
type UpdateInput struct {
	Name     *string
	Image    *string
	Password *string
}

// Update is a partial write applied by the repository. Nil pointers leave
// the column untouched. SetOTP and ClearOTP cover both otp columns at once
// so the set/cleared-together invariant holds structurally.
type Update struct {
	Name         *string
	Image        *string
	PasswordHash []byte
	IsVerified   *bool
	SetOTP       *OTPChallenge
	ClearOTP     bool
}
