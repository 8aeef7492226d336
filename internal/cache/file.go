package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// FileCache keeps entries in a single JSON document of the form
// {"<origin>#<key>": "<value>"}. Entries from other origins are preserved.
type FileCache struct {
	fs     afero.Fs
	path   string
	origin string

	mu sync.Mutex
}

func NewFileCache(fsys afero.Fs, path, origin string) *FileCache {
	return &FileCache{fs: fsys, path: path, origin: origin}
}

func (c *FileCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[scopedKey(c.origin, key)]
	return v, ok, nil
}

func (c *FileCache) Set(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load()
	if err != nil {
		return err
	}
	entries[scopedKey(c.origin, key)] = value
	return c.save(entries)
}

func (c *FileCache) Remove(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, err := c.load()
	if err != nil {
		return err
	}
	k := scopedKey(c.origin, key)
	if _, ok := entries[k]; !ok {
		return nil
	}
	delete(entries, k)
	return c.save(entries)
}

func (c *FileCache) load() (map[string]string, error) {
	entries := make(map[string]string)
	b, err := afero.ReadFile(c.fs, c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(b) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("decode cache file %s: %w", c.path, err)
	}
	return entries, nil
}

// save writes to a temp file and renames it over the cache file.
func (c *FileCache) save(entries map[string]string) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache file: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := c.fs.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	tmp := c.path + ".tmp"
	if err := afero.WriteFile(c.fs, tmp, b, 0o600); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := c.fs.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
