package user

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles user data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new user repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user with an already-hashed password
func (r *Repository) Create(ctx context.Context, req *CreateUserRequest, passwordHash string) (*User, error) {
	query := `
		INSERT INTO users (name, email, password_hash, photo_url)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, email, photo_url, is_admin, created_at
	`

	u := &User{}
	err := r.db.QueryRowContext(ctx, query, req.Name, req.Email, passwordHash, req.PhotoURL).Scan(
		&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by ID, or nil when absent
func (r *Repository) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `SELECT id, name, email, photo_url, is_admin, created_at FROM users WHERE id = $1`

	u := &User{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by email, or nil when absent
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, name, email, photo_url, is_admin, created_at FROM users WHERE email = $1`

	u := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.IsAdmin, &u.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// List retrieves all users ordered by creation time
func (r *Repository) List(ctx context.Context) ([]*User, error) {
	query := `SELECT id, name, email, photo_url, is_admin, created_at FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u := &User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PhotoURL, &u.IsAdmin, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
