package user

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/authbase/authbase/internal/apperr"
)

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]User // keyed by email
}

// NewMemoryRepository builds an in-memory user store for tests and dev mode.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[string]User)}
}

func (r *memoryRepository) Create(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[u.Email]; exists {
		return apperr.ErrConflict
	}
	r.users[u.Email] = u
	return nil
}

func (r *memoryRepository) FindByEmail(_ context.Context, email string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[email]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, apperr.ErrNotFound
}

func (r *memoryRepository) FindAll(_ context.Context) ([]User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

func (r *memoryRepository) Update(_ context.Context, id string, upd Update) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, u := range r.users {
		if u.ID == id {
			applied := apply(u, upd)
			r.users[email] = applied
			return applied, nil
		}
	}
	return User{}, apperr.ErrNotFound
}

func (r *memoryRepository) UpdateByEmail(_ context.Context, email string, upd Update) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	applied := apply(u, upd)
	r.users[email] = applied
	return applied, nil
}

func (r *memoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, u := range r.users {
		if u.ID == id {
			delete(r.users, email)
			return nil
		}
	}
	return apperr.ErrNotFound
}

func apply(u User, upd Update) User {
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Image != nil {
		u.Image = upd.Image
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = upd.PasswordHash
	}
	if upd.IsVerified != nil {
		u.IsVerified = *upd.IsVerified
	}
	if upd.SetOTP != nil {
		code := upd.SetOTP.Code
		exp := upd.SetOTP.ExpiresAt
		u.OTPCode = &code
		u.OTPExpiresAt = &exp
	} else if upd.ClearOTP {
		u.OTPCode = nil
		u.OTPExpiresAt = nil
	}
	u.UpdatedAt = time.Now().UTC()
	return u
}
