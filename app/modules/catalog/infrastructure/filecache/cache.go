// Package filecache keeps the last fetched country document on disk.
package filecache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"
)

var (
	// ErrMiss means there is no cache file yet.
	ErrMiss = errors.New("cache file not found")

	// ErrCorrupt means the cache file exists but cannot be used.
	ErrCorrupt = errors.New("cache file is corrupt")
)

// Entry is one cached document together with the time it was fetched.
type Entry struct {
	FetchedAt time.Time
	Endpoint  string
	Body      catalogdomain.Document
}

// FreshAt reports whether the entry is younger than window at now.
func (e *Entry) FreshAt(now time.Time, window time.Duration) bool {
	return e.FetchedAt.After(now.Add(-window))
}

type envelope struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Endpoint  string          `json:"endpoint"`
	Body      json.RawMessage `json:"body"`
}

// Cache reads and writes a single JSON cache file.
type Cache struct {
	path string
}

// New returns a Cache stored at path.
func New(path string) *Cache {
	return &Cache{path: path}
}

// Load reads the cache file. A bare JSON array, as written by earlier
// versions, is accepted with the file modification time as FetchedAt.
func (c *Cache) Load() (*Entry, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("failed to read cache file %s: %w", c.path, err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return c.loadLegacy(trimmed)
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if env.FetchedAt.IsZero() || len(env.Body) == 0 {
		return nil, fmt.Errorf("%w: missing fetched_at or body", ErrCorrupt)
	}

	return &Entry{
		FetchedAt: env.FetchedAt,
		Endpoint:  env.Endpoint,
		Body:      catalogdomain.Document(env.Body),
	}, nil
}

func (c *Cache) loadLegacy(body []byte) (*Entry, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: invalid JSON array", ErrCorrupt)
	}
	info, err := os.Stat(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat cache file %s: %w", c.path, err)
	}
	return &Entry{
		FetchedAt: info.ModTime(),
		Body:      catalogdomain.Document(body),
	}, nil
}

// Store overwrites the cache file with entry. The write goes through a
// temporary file in the same directory so a crash never leaves half a file.
func (c *Cache) Store(entry Entry) error {
	data, err := json.Marshal(envelope{
		FetchedAt: entry.FetchedAt.UTC(),
		Endpoint:  entry.Endpoint,
		Body:      json.RawMessage(entry.Body),
	})
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary cache file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		return fmt.Errorf("failed to replace cache file %s: %w", c.path, err)
	}
	return nil
}
