package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"heavyhaul-assistant/internal/models"
)

// ErrUserNotFound is returned when no account matches the given email.
var ErrUserNotFound = errors.New("user not found")

// UserByEmail looks up the account for a session login. Emails are matched
// case-insensitively.
func (d *DB) UserByEmail(ctx context.Context, email string) (*models.UserInfo, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrUserNotFound
	}

	var u models.UserInfo
	err := d.Pool.QueryRow(ctx,
		`SELECT id, email, name, role, COALESCE(order_ids, '{}') FROM users WHERE lower(email) = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.OrderIDs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", email, err)
	}
	return &u, nil
}
