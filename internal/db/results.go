package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SaveResult stores content as JSON under a new ID.
func (db *DB) SaveResult(ctx context.Context, feature string, content any) (uuid.UUID, error) {
	jsonBytes, err := json.Marshal(content)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	id := uuid.New()
	_, err = db.pool.Exec(ctx,
		`INSERT INTO results (id, feature, content)
		 VALUES ($1, $2, $3)`,
		id, feature, jsonBytes,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save %s result: %w", feature, err)
	}
	return id, nil
}

// GetResult returns the result with id, or nil if there is none.
func (db *DB) GetResult(ctx context.Context, id uuid.UUID) (*Result, error) {
	var r Result
	err := db.pool.QueryRow(ctx,
		`SELECT id, feature, content, created_at FROM results WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Feature, &r.Content, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result %s: %w", id, err)
	}
	return &r, nil
}

// ListResults returns the newest results for feature, newest first.
func (db *DB) ListResults(ctx context.Context, feature string, limit int) ([]Result, error) {
	limit = clampLimit(limit)

	rows, err := db.pool.Query(ctx,
		`SELECT id, feature, content, created_at FROM results
		 WHERE feature = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		feature, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s results: %w", feature, err)
	}
	defer rows.Close()

	results := []Result{}
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Feature, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list %s results: %w", feature, err)
	}
	return results, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
