// Package cache provides byte caches for rendered artifacts.
//
// Conversions themselves are cheap and never cached; what is cached are the
// rendered category diagrams, which go through Graphviz. Three backends are
// provided:
//   - [FileCache]: JSON entry files under a directory (CLI)
//   - [RedisCache]: a shared Redis instance (HTTP API deployments)
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so every backend agrees on naming.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional TTL.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DiagramKeyOpts are the inputs that change a rendered diagram.
type DiagramKeyOpts struct {
	// RegistryHash fingerprints the unit registry the diagram was drawn from.
	RegistryHash string `json:"registry_hash"`
	// Detailed selects labels with names and symbols.
	Detailed bool `json:"detailed,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// DiagramKey returns the key for a rendered category diagram.
	DiagramKey(category, format string, opts DiagramKeyOpts) string

	// SessionKey returns the key for a stored converter session.
	SessionKey(sessionID string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey returns "diagram:<category>:<format>:<hash(opts)>".
func (DefaultKeyer) DiagramKey(category, format string, opts DiagramKeyOpts) string {
	return hashKey("diagram:"+category+":"+format, opts)
}

// SessionKey returns "session:<id>".
func (DefaultKeyer) SessionKey(sessionID string) string {
	return "session:" + sessionID
}
