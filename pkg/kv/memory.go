package kv

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps values in a go-cache instance. With a path it is loaded from
// and written back to that file on every Set, so values survive restarts.
type Memory struct {
	cache *gocache.Cache
	path  string
	mu    sync.Mutex
}

var _ Store = (*Memory)(nil)

func NewMemory(path string) (*Memory, error) {
	m := &Memory{
		cache: gocache.New(gocache.NoExpiration, 0),
		path:  path,
	}
	if path == "" {
		return m, nil
	}

	if err := m.cache.LoadFile(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load cache file %s: %w", path, err)
	}
	return m, nil
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("cache key %s holds %T", key, v)
	}
	return s, true, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	m.cache.Set(key, value, gocache.NoExpiration)
	if m.path == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0o700); err != nil {
		return fmt.Errorf("failed to create cache dir: %w", err)
	}
	tmp := m.path + ".tmp"
	if err := m.cache.SaveFile(tmp); err != nil {
		return fmt.Errorf("failed to save cache file: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
