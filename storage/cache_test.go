package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache", "vocabs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	c := newTestCache(t)
	modified := time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)

	err := c.Put(&CachedResource{
		IRI:          "https://example.com/vocab",
		Body:         []byte("<a> <b> <c> ."),
		ContentType:  "text/turtle",
		LastModified: modified,
		FetchedAt:    modified.Add(time.Hour),
	})
	require.NoError(t, err)

	got, err := c.Get("https://example.com/vocab")
	require.NoError(t, err)
	assert.Equal(t, "<a> <b> <c> .", string(got.Body))
	assert.Equal(t, "text/turtle", got.ContentType)
	assert.True(t, got.LastModified.Equal(modified))
}

func TestGetMissing(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Get("https://example.com/missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPutRequiresIRI(t *testing.T) {
	c := newTestCache(t)
	assert.Error(t, c.Put(&CachedResource{Body: []byte("x")}))
	assert.Error(t, c.Put(nil))
}

func TestPutReplaces(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Put(&CachedResource{IRI: "https://example.com/v", Body: []byte("one")}))
	require.NoError(t, c.Put(&CachedResource{IRI: "https://example.com/v", Body: []byte("two")}))

	got, err := c.Get("https://example.com/v")
	require.NoError(t, err)
	assert.Equal(t, "two", string(got.Body))
}

func TestDeleteAndList(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, c.Put(&CachedResource{IRI: "https://example.com/b"}))
	require.NoError(t, c.Put(&CachedResource{IRI: "https://example.com/a"}))

	iris, err := c.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, iris)

	require.NoError(t, c.Delete("https://example.com/a"))
	require.NoError(t, c.Delete("https://example.com/never-stored"))

	iris, err = c.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/b"}, iris)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vocabs.db")
	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Put(&CachedResource{IRI: "https://example.com/v", Body: []byte("kept")}))
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	got, err := c.Get("https://example.com/v")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got.Body))
}

func TestUseAfterClose(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "vocabs.db"))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err = c.Get("https://example.com/v")
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(c.Put(&CachedResource{IRI: "x"}), ErrClosed))
}
