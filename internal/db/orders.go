package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"heavyhaul-assistant/internal/models"
)

// rowQuerier is the single-row query surface of pgxpool.Pool.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ErrOrderNotFound is returned when an order ID does not exist.
var ErrOrderNotFound = errors.New("order not found")

// adminOrderLimit caps how many recent orders an admin session tracks.
const adminOrderLimit = 20

// OrderByID fetches a single order document by its TMS ID.
func (d *DB) OrderByID(ctx context.Context, id int) (*models.OrderDocument, error) {
	var raw []byte
	err := d.Pool.QueryRow(ctx, `SELECT doc FROM orders WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order %d: %w", id, err)
	}
	return models.ParseOrderDocument(id, raw)
}

// OrdersByIDs fetches the given orders, skipping IDs that no longer exist or
// fail to decode.
func (d *DB) OrdersByIDs(ctx context.Context, ids []int) ([]*models.OrderDocument, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := d.Pool.Query(ctx, `SELECT id, doc FROM orders WHERE id = ANY($1) ORDER BY id DESC`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer rows.Close()

	var docs []*models.OrderDocument
	for rows.Next() {
		var (
			id  int
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		doc, err := models.ParseOrderDocument(id, raw)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// UserOrderIDs returns the order IDs visible to a user, newest first. Admins
// see the most recent orders across the whole book; drivers and clients see
// their current assignment list, re-read on every call so orders assigned
// after login show up on the next poll cycle.
func (d *DB) UserOrderIDs(ctx context.Context, user *models.UserInfo) ([]int, error) {
	if user.IsAdmin() {
		rows, err := d.Pool.Query(ctx, `SELECT id FROM orders ORDER BY id DESC LIMIT $1`, adminOrderLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to list orders: %w", err)
		}
		defer rows.Close()

		var ids []int
		for rows.Next() {
			var id int
			if err := rows.Scan(&id); err != nil {
				return nil, fmt.Errorf("failed to scan order id: %w", err)
			}
			ids = append(ids, id)
		}
		return ids, rows.Err()
	}
	return orderIDsByEmail(ctx, d.Pool, user.Email)
}

func orderIDsByEmail(ctx context.Context, q rowQuerier, email string) ([]int, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var ids []int
	err := q.QueryRow(ctx,
		`SELECT COALESCE(order_ids, '{}') FROM users WHERE lower(email) = $1`,
		email,
	).Scan(&ids)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order ids for %s: %w", email, err)
	}
	return ids, nil
}

// OrderExists reports whether an order ID is present.
func (d *DB) OrderExists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := d.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check order %d: %w", id, err)
	}
	return exists, nil
}
