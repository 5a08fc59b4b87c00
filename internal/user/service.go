package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/authbase/authbase/internal/apperr"
	"github.com/authbase/authbase/internal/password"
)

// Service wraps the repository with the per-entity concerns the generic
// store does not know about: email normalization and password hashing on
// create and update.
type Service struct {
	repo   Repository
	hasher password.Hasher
}

// NewService creates a new user service.
func NewService(repo Repository, hasher password.Hasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

// NormalizeEmail lowercases and trims an email so it can serve as the
// case-insensitive lookup key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create registers a new, unverified account. The caller is expected to
// issue a verification OTP afterwards.
func (s *Service) Create(ctx context.Context, in CreateInput) (User, error) {
	email := NormalizeEmail(in.Email)
	if email == "" {
		return User{}, fmt.Errorf("%w: email is required", apperr.ErrInvalid)
	}
	if len(in.Password) < 8 {
		return User{}, fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrInvalid)
	}

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return User{}, fmt.Errorf("%w: user with this email already exists", apperr.ErrConflict)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	u := User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: hash,
		IsVerified:   false,
		Image:        in.Image,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return s.repo.FindByEmail(ctx, NormalizeEmail(email))
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.FindAll(ctx)
}

// Update patches a user. A supplied password is hashed before it reaches
// the store; plaintext never leaves this method.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (User, error) {
	upd := Update{Name: in.Name, Image: in.Image}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return User{}, fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrInvalid)
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return User{}, err
		}
		upd.PasswordHash = hash
	}
	return s.repo.Update(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// MarkVerified flips the verification flag. Only the OTP verification flow
// calls this.
func (s *Service) MarkVerified(ctx context.Context, email string) (User, error) {
	verified := true
	return s.repo.UpdateByEmail(ctx, NormalizeEmail(email), Update{IsVerified: &verified})
}

// SetPassword hashes and overwrites the stored password hash.
func (s *Service) SetPassword(ctx context.Context, email, plaintext string) error {
	if len(plaintext) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", apperr.ErrInvalid)
	}
	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return err
	}
	_, err = s.repo.UpdateByEmail(ctx, NormalizeEmail(email), Update{PasswordHash: hash})
	return err
}
