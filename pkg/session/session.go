// Package session holds converter UI state between interactions.
//
// A [Session] is the state a user interface keeps for one user: the selected
// category, the from/to units, the authoritative input text and the derived
// output. Every mutation recomputes the output synchronously through the
// conversion engine, so the output is never stale and never edited directly.
//
// # Swap
//
// [Session.Swap] exchanges the units and promotes the current output to the
// new input. The output is then recomputed from that input instead of taking
// the previous input verbatim, so rounding in the displayed output cannot
// drift the pair apart.
//
// # Stores
//
// Sessions can be persisted between processes or requests:
//   - [MemoryStore]: in-process map (tests, single-instance API)
//   - [FileStore]: JSON files under ~/.config/unitconv/sessions/ (CLI/TUI)
//   - [RedisStore]: Redis with TTL (multi-instance API)
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/unitconv/pkg/convert"
	"github.com/matzehuels/unitconv/pkg/errors"
	"github.com/matzehuels/unitconv/pkg/units"
)

// Defaults for a new session.
const (
	DefaultCategory = units.Length
	DefaultFrom     = "meter"
	DefaultTo       = "foot"
	DefaultInput    = "1"

	// DefaultTTL is how long an idle stored session is kept.
	DefaultTTL = 24 * time.Hour
)

// Session is the converter state of one user.
type Session struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`

	engine *convert.Engine
}

// New creates a session with the default selection (1 meter to foot) and a
// fresh ID. A nil engine selects convert.Default().
func New(e *convert.Engine, ttl time.Duration) *Session {
	s := &Session{
		ID:       uuid.NewString(),
		Category: DefaultCategory,
		From:     DefaultFrom,
		To:       DefaultTo,
		Input:    DefaultInput,
		engine:   e,
	}
	s.touch(ttl)
	s.Recompute()
	return s
}

// Bind attaches the engine used for recomputation, typically after a session
// has been loaded from a store.
func (s *Session) Bind(e *convert.Engine) *Session {
	s.engine = e
	return s
}

// IsExpired reports whether the session has passed its expiry time.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Recompute derives Output from the current selection and input.
func (s *Session) Recompute() {
	s.Output = s.conv().Convert(s.Input, s.From, s.To, s.Category)
}

// SetCategory switches to another category. Units that do not belong to the
// new category are replaced by its first and second units.
func (s *Session) SetCategory(key string) error {
	c, ok := s.conv().Registry().Category(key)
	if !ok {
		return errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", key)
	}
	s.Category = key
	if !c.Has(s.From) || !c.Has(s.To) {
		us := c.Units()
		s.From, s.To = us[0].Key, us[1].Key
	}
	s.Recompute()
	return nil
}

// SetFrom selects the source unit.
func (s *Session) SetFrom(unit string) error {
	if err := s.checkUnit(unit); err != nil {
		return err
	}
	s.From = unit
	s.Recompute()
	return nil
}

// SetTo selects the target unit.
func (s *Session) SetTo(unit string) error {
	if err := s.checkUnit(unit); err != nil {
		return err
	}
	s.To = unit
	s.Recompute()
	return nil
}

// SetInput replaces the input text. Any text is accepted; invalid input
// simply produces an empty output.
func (s *Session) SetInput(raw string) {
	s.Input = raw
	s.Recompute()
}

// Swap exchanges the units. A non-empty output becomes the new input and the
// output is recomputed from it.
func (s *Session) Swap() {
	s.From, s.To = s.To, s.From
	if s.Output != "" {
		s.Input = s.Output
	}
	s.Recompute()
}

// ApplyPreset selects the preset's category and units and resets the input
// to "1".
func (s *Session) ApplyPreset(p Preset) error {
	c, ok := s.conv().Registry().Category(p.Category)
	if !ok {
		return errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", p.Category)
	}
	if !c.Has(p.From) || !c.Has(p.To) {
		return errors.New(errors.ErrCodeUnknownUnit, "preset %q uses units outside %s", p.Label, p.Category)
	}
	s.Category, s.From, s.To = p.Category, p.From, p.To
	s.Input = DefaultInput
	s.Recompute()
	return nil
}

// Touch refreshes UpdatedAt and extends the expiry by ttl.
func (s *Session) Touch(ttl time.Duration) {
	s.touch(ttl)
}

func (s *Session) touch(ttl time.Duration) {
	now := time.Now().UTC()
	s.UpdatedAt = now
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
}

func (s *Session) checkUnit(unit string) error {
	c, ok := s.conv().Registry().Category(s.Category)
	if !ok {
		return errors.New(errors.ErrCodeUnknownCategory, "unknown category %q", s.Category)
	}
	if !c.Has(unit) {
		return errors.New(errors.ErrCodeUnknownUnit, "unknown unit %q in %s", unit, s.Category)
	}
	return nil
}

func (s *Session) conv() *convert.Engine {
	if s.engine == nil {
		return convert.Default()
	}
	return s.engine
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}
