// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/biodata-hub/pkg/apperrors"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// InsertUserIfAbsent persists a user unless one with the same email already
// exists. The created return value reports whether a row was written.
func (s *Store) InsertUserIfAbsent(ctx context.Context, u types.User) (created bool, err error) {
	role := u.Role
	if role == "" {
		role = "user"
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, name)
		 SELECT ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (SELECT 1 FROM users WHERE email = ?)`,
		u.ID, u.Email, u.PasswordHash, role, u.Name, u.Email)
	if err != nil {
		return false, fmt.Errorf("%w: inserting user %s: %v", apperrors.ErrStoreUnavailable, u.Email, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("inserting user %s: %w", u.Email, err)
	}
	return n > 0, nil
}

// GetUserByEmail returns the user with the given email, or ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	var (
		u    types.User
		name sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, role, name FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %q", apperrors.ErrNotFound, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading user %s: %v", apperrors.ErrStoreUnavailable, email, err)
	}
	u.Name = name.String
	return &u, nil
}
