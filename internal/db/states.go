package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ErrStateNotFound is returned when no provision data exists for a state.
var ErrStateNotFound = errors.New("state not found")

// StateInfo fetches a state's provision document. Internal bookkeeping keys
// are stripped before the data reaches a prompt.
func (d *DB) StateInfo(ctx context.Context, stateName string) (map[string]interface{}, error) {
	var raw []byte
	err := d.Pool.QueryRow(ctx,
		`SELECT info FROM states WHERE state_name ILIKE $1`, stateName,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch state %s: %w", stateName, err)
	}

	var info map[string]interface{}
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("failed to decode state %s info: %w", stateName, err)
	}
	delete(info, "others")
	delete(info, "provision_info")
	return info, nil
}
