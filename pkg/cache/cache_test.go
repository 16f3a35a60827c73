package cache

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	// FrequencyKey should include options in hash
	fk1 := k.FrequencyKey("hash123", FrequencyKeyOpts{MinWordLength: 2, MaxWords: 100})
	fk2 := k.FrequencyKey("hash123", FrequencyKeyOpts{MinWordLength: 3, MaxWords: 100})
	if fk1 == fk2 {
		t.Error("Different FrequencyKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(fk1, "freq:") {
		t.Errorf("FrequencyKey should have freq: prefix, got %s", fk1)
	}

	// Same inputs produce the same key
	fk3 := k.FrequencyKey("hash123", FrequencyKeyOpts{MinWordLength: 2, MaxWords: 100})
	if fk1 != fk3 {
		t.Error("FrequencyKey should be deterministic")
	}

	// ArtifactKey
	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Width: 800, Height: 600, Seed: 42})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Width: 800, Height: 600, Seed: 43})
	if ak1 == ak2 {
		t.Error("Different seeds should produce different artifact keys")
	}
	if !strings.HasPrefix(ak1, "artifact:") {
		t.Errorf("ArtifactKey should have artifact: prefix, got %s", ak1)
	}

	// Text hash participates in the key
	ak3 := k.ArtifactKey("hash456", ArtifactKeyOpts{Width: 800, Height: 600, Seed: 42})
	if ak1 == ak3 {
		t.Error("Different text hashes should produce different artifact keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "test:")

	key := scoped.FrequencyKey("hash123", FrequencyKeyOpts{})
	if !strings.HasPrefix(key, "test:freq:") {
		t.Errorf("ScopedKeyer should prepend prefix, got %s", key)
	}

	// Nil inner falls back to DefaultKeyer
	fallback := NewScopedKeyer(nil, "ns:")
	key2 := fallback.ArtifactKey("hash123", ArtifactKeyOpts{})
	if !strings.HasPrefix(key2, "ns:artifact:") {
		t.Errorf("Nil inner should fall back to DefaultKeyer, got %s", key2)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	// Miss on empty cache
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Empty cache should miss")
	}

	// Set then Get
	want := []byte("rendered artifact")
	if err := c.Set(ctx, "key", want, time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	got, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Expected cache hit after Set")
	}
	if string(got) != string(want) {
		t.Errorf("Get returned %q, want %q", got, want)
	}

	// Expired entries miss
	if err := c.Set(ctx, "expired", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	_, hit, err = c.Get(ctx, "expired")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Expired entry should miss")
	}

	// Delete
	if err := c.Delete(ctx, "key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("Deleted entry should miss")
	}

	// Deleting a missing key is not an error
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete of missing key should not error: %v", err)
	}
}

func TestFileCacheEvictsCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("artifact"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Damage the stored envelope on disk.
	var entryPath string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			entryPath = path
		}
		return err
	})
	if err != nil || entryPath == "" {
		t.Fatalf("Could not locate cache entry file: %v", err)
	}
	if err := os.WriteFile(entryPath, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	// A corrupt entry is a miss, not an error, and gets evicted.
	_, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Corrupt entry should miss")
	}
	if _, err := os.Stat(entryPath); !os.IsNotExist(err) {
		t.Error("Corrupt entry should be removed")
	}
}
