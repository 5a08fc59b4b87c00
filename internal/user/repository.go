package user

import "context"

// Repository persists users. Writes are atomic at the single-record level
// only; concurrent partial updates to the same row are last-write-wins.
type Repository interface {
	Create(ctx context.Context, u User) error
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id string, upd Update) (User, error)
	UpdateByEmail(ctx context.Context, email string, upd Update) (User, error)
	Delete(ctx context.Context, id string) error
}
