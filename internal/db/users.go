package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// User Methods
// -----------------------------------------------------------------------------

// CheckEmailExists reports whether a user with the given email is registered.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return exists, nil
}

// CreateUser inserts a new user and returns its ID.
func (db *DB) CreateUser(ctx context.Context, u *User) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (first_name, last_name, email, password_hash, phone, location, linkedin, github)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone,
		nullable(u.Location), nullable(u.LinkedIn), nullable(u.GitHub),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil if not found.
func (db *DB) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	var u User
	var location, linkedin, github *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, password_hash, phone, location, linkedin, github, created_at
		 FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone,
		&location, &linkedin, &github, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.Location = deref(location)
	u.LinkedIn = deref(linkedin)
	u.GitHub = deref(github)
	return &u, nil
}

// GetUserByEmail retrieves a user by email. Returns nil if not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	var location, linkedin, github *string
	err := db.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, password_hash, phone, location, linkedin, github, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone,
		&location, &linkedin, &github, &u.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	u.Location = deref(location)
	u.LinkedIn = deref(linkedin)
	u.GitHub = deref(github)
	return &u, nil
}

// UpdateUserProfile applies a partial profile update. Returns false when the
// update carried no fields.
func (db *DB) UpdateUserProfile(ctx context.Context, userID uuid.UUID, update *UserProfileUpdate) (bool, error) {
	sets := []string{}
	args := []any{}
	argNum := 1

	add := func(column string, value *string) {
		if value != nil {
			sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
			args = append(args, *value)
			argNum++
		}
	}
	add("first_name", update.FirstName)
	add("last_name", update.LastName)
	add("phone", update.Phone)
	add("location", update.Location)
	add("linkedin", update.LinkedIn)
	add("github", update.GitHub)

	if len(sets) == 0 {
		return false, nil
	}

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d`, strings.Join(sets, ", "), argNum)
	args = append(args, userID)

	if _, err := db.pool.Exec(ctx, query, args...); err != nil {
		return false, fmt.Errorf("failed to update user profile: %w", err)
	}
	return true, nil
}

// UpdatePassword replaces a user's password hash.
func (db *DB) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1 WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// DeleteUser deletes a user account; resumes, cover letters, normalized
// section rows, and skill associations go with it via cascade.
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// nullable maps the empty string to a NULL parameter.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// deref maps a NULL column back to the empty string.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
