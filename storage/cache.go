// Package storage caches fetched online vocabularies in an embedded bbolt
// database, so generation keeps working when a vocabulary server is down.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketVocabs = []byte("vocabs")

// CachedResource is one fetched vocabulary body with its response metadata.
type CachedResource struct {
	IRI          string    `json:"iri"`
	Body         []byte    `json:"body"`
	ContentType  string    `json:"contentType"`
	LastModified time.Time `json:"lastModified"`
	FetchedAt    time.Time `json:"fetchedAt"`
}

// Cache is a bbolt-backed store of CachedResource keyed by resource IRI.
type Cache struct {
	mu     sync.RWMutex
	db     *bolt.DB
	path   string
	closed bool
}

// Open opens (or creates) the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVocabs)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}
	return &Cache{db: db, path: path}, nil
}

// Path returns the database file location.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the underlying database. Calling it twice is a no-op.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.db.Close()
}

// Put stores res under its IRI, replacing any previous copy.
func (c *Cache) Put(res *CachedResource) error {
	if res == nil || res.IRI == "" {
		return fmt.Errorf("cached resource requires an IRI")
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal cached resource: %w", err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVocabs).Put([]byte(res.IRI), data)
	})
}

// Get returns the cached copy of iri, or ErrNotFound.
func (c *Cache) Get(iri string) (*CachedResource, error) {
	var data []byte

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}
	err := c.db.View(func(tx *bolt.Tx) error {
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if v := tx.Bucket(bucketVocabs).Get([]byte(iri)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, ErrNotFound
	}

	var res CachedResource
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("unmarshal cached resource [%s]: %w", iri, err)
	}
	return &res, nil
}

// Delete removes the cached copy of iri. Deleting a missing entry is not an
// error.
func (c *Cache) Delete(iri string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVocabs).Delete([]byte(iri))
	})
}

// List returns the cached IRIs in sorted order.
func (c *Cache) List() ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return nil, ErrClosed
	}
	var iris []string
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVocabs).ForEach(func(k, _ []byte) error {
			iris = append(iris, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(iris)
	return iris, nil
}
