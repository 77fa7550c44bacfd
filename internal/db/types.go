package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Result is a stored, validated AI result.
type Result struct {
	ID        uuid.UUID       `json:"id"`
	Feature   string          `json:"feature"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store is the result persistence used by the HTTP server.
type Store interface {
	SaveResult(ctx context.Context, feature string, content any) (uuid.UUID, error)
	GetResult(ctx context.Context, id uuid.UUID) (*Result, error)
	ListResults(ctx context.Context, feature string, limit int) ([]Result, error)
}

var _ Store = (*DB)(nil)

// DefaultListLimit caps ListResults when the caller passes a non-positive limit.
const DefaultListLimit = 20

// MaxListLimit is the largest page ListResults returns.
const MaxListLimit = 100
