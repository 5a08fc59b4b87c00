package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authbase/authbase/internal/apperr"
)

const userColumns = `id, email, name, password_hash, is_verified, otp_code, otp_expires_at, image, created_at, updated_at`

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user. A duplicate email maps to apperr.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, u User) error {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id, u.Email, u.Name, u.PasswordHash, u.IsVerified,
		u.OTPCode, u.OTPExpiresAt, u.Image, u.CreatedAt.UTC(), u.UpdatedAt.UTC())
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	}
	return err
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, apperr.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update applies a partial update keyed by id.
func (r *PostgresRepository) Update(ctx context.Context, id string, upd Update) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, apperr.ErrNotFound
	}
	return r.update(ctx, `id`, userID, upd)
}

// UpdateByEmail applies a partial update keyed by email.
func (r *PostgresRepository) UpdateByEmail(ctx context.Context, email string, upd Update) (User, error) {
	return r.update(ctx, `email`, email, upd)
}

func (r *PostgresRepository) update(ctx context.Context, keyCol string, key any, upd Update) (User, error) {
	sets := []string{`updated_at = now()`}
	args := []any{key}

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf(`%s = $%d`, col, len(args)))
	}

	if upd.Name != nil {
		add(`name`, *upd.Name)
	}
	if upd.Image != nil {
		add(`image`, *upd.Image)
	}
	if upd.PasswordHash != nil {
		add(`password_hash`, upd.PasswordHash)
	}
	if upd.IsVerified != nil {
		add(`is_verified`, *upd.IsVerified)
	}
	if upd.SetOTP != nil {
		add(`otp_code`, upd.SetOTP.Code)
		add(`otp_expires_at`, upd.SetOTP.ExpiresAt.UTC())
	} else if upd.ClearOTP {
		sets = append(sets, `otp_code = NULL`, `otp_expires_at = NULL`)
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE %s = $1 RETURNING %s`,
		strings.Join(sets, ", "), keyCol, userColumns)
	row := r.db.QueryRow(ctx, query, args...)
	return scanUser(row)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return apperr.ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		u         User
	)
	err := row.Scan(&id, &u.Email, &u.Name, &u.PasswordHash, &u.IsVerified,
		&u.OTPCode, &u.OTPExpiresAt, &u.Image, &createdAt, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, apperr.ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	u.ID = id.String()
	u.CreatedAt = createdAt.UTC()
	u.UpdatedAt = updatedAt.UTC()
	if u.OTPExpiresAt != nil {
		t := u.OTPExpiresAt.UTC()
		u.OTPExpiresAt = &t
	}
	return u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
