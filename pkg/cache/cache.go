// Package cache provides the artifact cache for rendered word clouds.
//
// Generating a cloud from a large corpus is dominated by segmentation and
// the exhaustive placement scans, so the CLI caches finished artifacts
// (rendered PNGs, analyzed frequency lists) keyed by a content hash of the
// input text plus the options that influenced the result.
//
// Two implementations are provided: FileCache for CLI usage and NullCache
// for disabling caching. Keys are built through the Keyer interface so
// embedders can namespace them (see ScopedKeyer).
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte-oriented cache with TTL support.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// FrequencyKeyOpts are the analyzer options that influence the ranked word
// list and therefore participate in its cache key.
type FrequencyKeyOpts struct {
	Pattern        string   `json:"pattern"`
	MinWordLength  int      `json:"min_word_length"`
	ExcludeNumbers bool     `json:"exclude_numbers"`
	ExcludeWords   []string `json:"exclude_words"`
	MaxWords       int      `json:"max_words"`
	CustomWords    []string `json:"custom_words"`
}

// ArtifactKeyOpts are the layout and render options that influence the final
// image and therefore participate in its cache key.
type ArtifactKeyOpts struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	MaskHash        string  `json:"mask_hash,omitempty"`
	Scale           float64 `json:"scale"`
	Background      string  `json:"background"`
	WordMargin      int     `json:"word_margin"`
	MinFontSize     float64 `json:"min_font_size"`
	MaxFontSize     float64 `json:"max_font_size"`
	FontStep        float64 `json:"font_step"`
	FontHash        string  `json:"font_hash,omitempty"`
	Seed            uint64  `json:"seed"`
	Repeat          bool    `json:"repeat"`
	RotateChance    float64 `json:"rotate_chance"`
	RelativeScaling float64 `json:"relative_scaling"`
}

// Keyer builds cache keys for the pipeline stages.
type Keyer interface {
	// FrequencyKey keys an analyzed word list by text hash and analyzer options.
	FrequencyKey(textHash string, opts FrequencyKeyOpts) string

	// ArtifactKey keys a rendered artifact by text hash and render options.
	ArtifactKey(textHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key builder.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// FrequencyKey implements Keyer.
func (k *DefaultKeyer) FrequencyKey(textHash string, opts FrequencyKeyOpts) string {
	return hashKey("freq", textHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(textHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", textHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

// hashKey builds a namespaced key: prefix:sha256(json(parts)). The JSON
// round-trip makes every option struct field participate in the key, so
// changing any layout or analyzer option invalidates the cached artifact.
func hashKey(prefix string, parts ...interface{}) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the sha256 hex digest of data. Used to fingerprint input
// text, mask images, and font files for cache keys.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache drops every write and misses every read. It backs --no-cache
// runs and the analyze command, which never caches.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
