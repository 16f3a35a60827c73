package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This keeps artifact keys separate when several configurations share one
// cache directory (for example, different fonts discovered per machine).
//
// Example usage:
//
//	// Font-specific keys
//	fontKeyer := NewScopedKeyer(NewDefaultKeyer(), "font:dejavu:")
//
//	// Global keys
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
// A nil inner keyer falls back to DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) *ScopedKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FrequencyKey implements Keyer.
func (k *ScopedKeyer) FrequencyKey(textHash string, opts FrequencyKeyOpts) string {
	return k.prefix + k.inner.FrequencyKey(textHash, opts)
}

// ArtifactKey implements Keyer.
func (k *ScopedKeyer) ArtifactKey(textHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(textHash, opts)
}

// Ensure ScopedKeyer implements Keyer.
var _ Keyer = (*ScopedKeyer)(nil)
