package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// Several deployments can share one Redis instance by giving each its own
// prefix.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "unitconv:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DiagramKey generates a prefixed diagram key.
func (k *ScopedKeyer) DiagramKey(category, format string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(category, format, opts)
}

// SessionKey generates a prefixed session key.
func (k *ScopedKeyer) SessionKey(sessionID string) string {
	return k.prefix + k.inner.SessionKey(sessionID)
}
