package filecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	catalogdomain "github.com/Black-And-White-Club/poptrivia/app/modules/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const body = `[{"name":{"common":"USA"},"population":331000000},{"name":{"common":"Canada"},"population":38000000}]`

func TestCache_StoreLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "country_information.json")
	cache := New(path)
	fetchedAt := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	require.NoError(t, cache.Store(Entry{
		FetchedAt: fetchedAt,
		Endpoint:  "https://example.test/all",
		Body:      catalogdomain.Document(body),
	}))

	entry, err := cache.Load()
	require.NoError(t, err)
	assert.True(t, fetchedAt.Equal(entry.FetchedAt))
	assert.Equal(t, "https://example.test/all", entry.Endpoint)
	assert.JSONEq(t, body, string(entry.Body))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".country_information.json-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestCache_StoreOverwrites(t *testing.T) {
	cache := New(filepath.Join(t.TempDir(), "cache.json"))

	require.NoError(t, cache.Store(Entry{FetchedAt: time.Now(), Body: catalogdomain.Document(`[1]`)}))
	require.NoError(t, cache.Store(Entry{FetchedAt: time.Now(), Body: catalogdomain.Document(`[2]`)}))

	entry, err := cache.Load()
	require.NoError(t, err)
	assert.JSONEq(t, `[2]`, string(entry.Body))
}

func TestCache_LoadMiss(t *testing.T) {
	cache := New(filepath.Join(t.TempDir(), "absent.json"))

	_, err := cache.Load()
	assert.ErrorIs(t, err, ErrMiss)
}

func TestCache_LoadCorrupt(t *testing.T) {
	tests := map[string]string{
		"not json":        `{"fetched_at":`,
		"missing body":    `{"fetched_at":"2026-10-17T09:30:00Z"}`,
		"missing time":    `{"body":[]}`,
		"broken legacy":   `[{"name":`,
		"scalar document": `42`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cache.json")
			require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

			_, err := New(path).Load()
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestCache_LoadLegacyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "country_information.json")
	require.NoError(t, os.WriteFile(path, []byte("\n"+body+"\n"), 0o644))
	modTime := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, modTime, modTime))

	entry, err := New(path).Load()
	require.NoError(t, err)
	assert.True(t, modTime.Equal(entry.FetchedAt))
	assert.Empty(t, entry.Endpoint)
	assert.JSONEq(t, body, string(entry.Body))
}

func TestEntry_FreshAt(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	window := 24 * time.Hour

	assert.True(t, (&Entry{FetchedAt: now.Add(-time.Hour)}).FreshAt(now, window))
	assert.True(t, (&Entry{FetchedAt: now.Add(-window + time.Second)}).FreshAt(now, window))
	assert.False(t, (&Entry{FetchedAt: now.Add(-window)}).FreshAt(now, window))
	assert.False(t, (&Entry{FetchedAt: now.Add(-48 * time.Hour)}).FreshAt(now, window))
}
