// Package history records completed conversions.
//
// A [Store] keeps the most recent conversions so the CLI and the HTTP API
// can show what was converted. Backends:
//   - [MemoryStore]: a bounded in-process ring (default)
//   - [MongoStore]: a MongoDB collection shared by API instances
//
// Only successful conversions are recorded; invalid requests produce no
// result and no record.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the number of records Recent returns when asked for zero
// or fewer.
const DefaultLimit = 50

// Record is one completed conversion.
type Record struct {
	ID        string    `json:"id" bson:"_id"`
	Category  string    `json:"category" bson:"category"`
	From      string    `json:"from" bson:"from"`
	To        string    `json:"to" bson:"to"`
	Input     string    `json:"input" bson:"input"`
	Output    string    `json:"output" bson:"output"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord creates a record with a fresh ID and the current time.
func NewRecord(category, from, to, input, output string) Record {
	return Record{
		ID:        uuid.NewString(),
		Category:  category,
		From:      from,
		To:        to,
		Input:     input,
		Output:    output,
		CreatedAt: time.Now().UTC(),
	}
}

// Store persists conversion records.
type Store interface {
	// Add appends a record.
	Add(ctx context.Context, rec Record) error

	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)

	// Close releases backend resources.
	Close() error
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
