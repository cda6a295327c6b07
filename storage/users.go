package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UsersRepo reads and writes bot operators.
type UsersRepo struct {
	db *sqlx.DB
}

// NewUsersRepo builds a users repository over db.
func NewUsersRepo(db *sqlx.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

// GetByID fetches a user by Telegram id. Returns ErrNotFound for
// unknown users, which the auth layer treats as "not authorized".
func (r *UsersRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u,
		`SELECT id, first_name, last_name, phone, created_at FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("users get %d: %w", id, wrapNotFound(err))
	}
	return &u, nil
}

// Create registers a new operator. Re-creating an existing id is a no-op.
func (r *UsersRepo) Create(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, first_name, last_name, phone)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO NOTHING`,
		u.ID, u.FirstName, u.LastName, u.Phone)
	if err != nil {
		return fmt.Errorf("users create %d: %w", u.ID, err)
	}
	return nil
}
