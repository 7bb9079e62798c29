// Copyright © 2024 The ELPS authors

package lint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// Bump when the cached payload or the engines' output changes shape.
const cacheSchemaVersion uint16 = 2

// Cache stores lint results on disk keyed by a hash of the source and the
// linter configuration.  It is safe for concurrent use.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cachePayload struct {
	Schema      uint16
	Diagnostics []Diagnostic
	Data        Data
	Abandoned   bool
}

// OpenCache returns a cache rooted at dir, creating it if needed.  An empty
// dir selects jsvet under the user cache directory.
func OpenCache(dir string) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "jsvet")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the directory the cache writes to.
func (c *Cache) Dir() string { return c.dir }

// Key derives the cache key of source linted under the given configuration
// fingerprint.
func (c *Cache) Key(source, fingerprint []byte) string {
	h := sha256.New()
	h.Write([]byte{byte(cacheSchemaVersion >> 8), byte(cacheSchemaVersion)})
	h.Write(fingerprint)
	h.Write([]byte{0})
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.dir, "results", key+".mp")
}

// Put writes res under key, replacing any previous entry atomically.
func (c *Cache) Put(key string, res *Result) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) //nolint:errcheck // gone after a successful rename

	err = msgpack.NewEncoder(f).Encode(&cachePayload{
		Schema:      cacheSchemaVersion,
		Diagnostics: res.Diagnostics,
		Data:        res.Data,
		Abandoned:   res.Abandoned,
	})
	if err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get returns the result stored under key.  Missing, unreadable and stale
// entries are all misses.
func (c *Cache) Get(key string) (*Result, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		return nil, false
	}
	defer f.Close() //nolint:errcheck

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false
	}
	if payload.Schema != cacheSchemaVersion {
		return nil, false
	}
	return &Result{
		Diagnostics: payload.Diagnostics,
		Data:        payload.Data,
		Abandoned:   payload.Abandoned,
	}, true
}

// Clear removes every cached result.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := os.RemoveAll(filepath.Join(c.dir, "results"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
