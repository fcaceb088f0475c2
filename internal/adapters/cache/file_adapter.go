package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zatekoja/campusmove/internal/domain/providers"
)

type fileEntry struct {
	Value     []byte     `json:"value"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// FileAdapter keeps a small key-value blob in a single JSON file, the
// on-disk counterpart of browser local storage. It survives restarts and is
// meant for one process at a time.
type FileAdapter struct {
	mu   sync.Mutex
	path string
}

// NewFileAdapter creates an adapter backed by path. The file and its parent
// directory are created on first write.
func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path}
}

func (a *FileAdapter) load() (map[string]fileEntry, error) {
	data, err := os.ReadFile(a.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]fileEntry), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.path, err)
	}

	entries := make(map[string]fileEntry)
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", a.path, err)
	}
	return entries, nil
}

// save writes to a temp file and renames it over the blob.
func (a *FileAdapter) save(entries map[string]fileEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	dir := filepath.Dir(a.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(a.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), a.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", a.path, err)
	}
	return nil
}

// Get retrieves a value
func (a *FileAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := a.load()
	if err != nil {
		return nil, err
	}
	entry, ok := entries[key]
	if !ok || (entry.ExpiresAt != nil && time.Now().After(*entry.ExpiresAt)) {
		return nil, fmt.Errorf("%w: %s", providers.ErrCacheMiss, key)
	}
	return entry.Value, nil
}

// Set stores a value with expiration
func (a *FileAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := a.load()
	if err != nil {
		return err
	}

	entry := fileEntry{Value: value}
	if expirationSeconds > 0 {
		expiresAt := time.Now().Add(time.Duration(expirationSeconds) * time.Second).UTC()
		entry.ExpiresAt = &expiresAt
	}
	entries[key] = entry
	return a.save(entries)
}

// Delete removes a value
func (a *FileAdapter) Delete(ctx context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	entries, err := a.load()
	if err != nil {
		return err
	}
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return a.save(entries)
}

// Exists checks if a key exists
func (a *FileAdapter) Exists(ctx context.Context, key string) (bool, error) {
	_, err := a.Get(ctx, key)
	if errors.Is(err, providers.ErrCacheMiss) {
		return false, nil
	}
	return err == nil, err
}
