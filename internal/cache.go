package internal

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	tt "github.com/gnolang/pystyle/internal/types"
)

const (
	cacheFileName = "pystyle_cache.mp"

	// cacheSchema changes whenever the on-disk layout does.
	cacheSchema uint16 = 1
)

type fileMetadata struct {
	Hash         string
	LastModified int64 // unix nanoseconds
}

type CacheEntry struct {
	Metadata     fileMetadata
	Issues       []tt.Issue
	CreatedAt    time.Time
	LastAccessed time.Time
}

// cachePayload is what gets written to disk.
type cachePayload struct {
	Schema  uint16
	Version string
	Entries map[string]CacheEntry
}

// Cache keeps the issues of unchanged files between runs. An entry is
// reused only while both the content hash and the modification time of the
// file match.
type Cache struct {
	CacheDir string
	version  string
	entries  map[string]CacheEntry
	mutex    sync.RWMutex
	maxAge   time.Duration // zero means entries never expire
	dirty    bool
}

// NewCache opens the cache stored in cacheDir, creating the directory if
// needed. Entries written under a different version are discarded.
func NewCache(cacheDir, version string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cache := &Cache{
		CacheDir: cacheDir,
		version:  version,
		entries:  make(map[string]CacheEntry),
	}

	if err := cache.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}

	return cache, nil
}

func (c *Cache) path() string {
	return filepath.Join(c.CacheDir, cacheFileName)
}

func (c *Cache) load() error {
	file, err := os.Open(c.path())
	if errors.Is(err, os.ErrNotExist) {
		return nil // first run
	}
	if err != nil {
		return fmt.Errorf("failed to open cache file: %w", err)
	}
	defer file.Close()

	var payload cachePayload
	if err := msgpack.NewDecoder(file).Decode(&payload); err != nil {
		return fmt.Errorf("failed to decode cache file: %w", err)
	}
	if payload.Schema != cacheSchema || payload.Version != c.version || payload.Entries == nil {
		return nil
	}
	c.entries = payload.Entries
	return nil
}

// Save writes the cache to disk if anything changed since it was loaded.
// The file is replaced atomically.
func (c *Cache) Save() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.dirty {
		return nil
	}

	tmp, err := os.CreateTemp(c.CacheDir, "tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	payload := cachePayload{Schema: cacheSchema, Version: c.version, Entries: c.entries}
	if err := msgpack.NewEncoder(tmp).Encode(&payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path()); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	c.dirty = false
	return nil
}

func (c *Cache) Set(filename string, issues []tt.Issue) error {
	metadata, err := getFileMetadata(filename)
	if err != nil {
		return fmt.Errorf("failed to get file metadata: %w", err)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	c.entries[filename] = CacheEntry{
		Metadata:     metadata,
		Issues:       issues,
		CreatedAt:    now,
		LastAccessed: now,
	}
	c.dirty = true

	return nil
}

func (c *Cache) Get(filename string) ([]tt.Issue, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[filename]
	if !exists {
		return nil, false
	}

	if c.isEntryInvalid(filename, entry) {
		delete(c.entries, filename)
		c.dirty = true
		return nil, false
	}

	entry.LastAccessed = time.Now()
	c.entries[filename] = entry

	return entry.Issues, true
}

func (c *Cache) isEntryInvalid(filename string, entry CacheEntry) bool {
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return true
	}

	currentMetadata, err := getFileMetadata(filename)
	return err != nil || currentMetadata != entry.Metadata
}

// SetMaxAge makes entries older than duration stale. Zero disables expiry.
func (c *Cache) SetMaxAge(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.maxAge = duration
}

// InvalidateAll drops every entry and rewrites the cache file.
func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	c.entries = make(map[string]CacheEntry)
	c.dirty = true
	c.mutex.Unlock()

	return c.Save()
}

func getFileMetadata(filename string) (fileMetadata, error) {
	file, err := os.Open(filename)
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		return fileMetadata{}, fmt.Errorf("failed to calculate hash: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		return fileMetadata{}, fmt.Errorf("failed to get file info: %w", err)
	}

	return fileMetadata{
		Hash:         fmt.Sprintf("%x", hash.Sum(nil)),
		LastModified: info.ModTime().UnixNano(),
	}, nil
}
