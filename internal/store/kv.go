package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// KV is the key-value persistence collaborator
type KV interface {
	// Get returns the value for key. ok is false when nothing is stored.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Close releases the backend's resources
	Close() error
}

// Backend names accepted by Open
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendZstd   = "file-zstd"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Open creates the key-value backend named by kind rooted at path
func Open(kind, path string) (KV, error) {
	switch strings.ToLower(kind) {
	case BackendMemory:
		return NewMemoryKV(), nil
	case BackendFile, "":
		return NewFileKV(path, false)
	case BackendZstd:
		return NewFileKV(path, true)
	case BackendBolt:
		return NewBoltKV(path)
	case BackendSQLite:
		return NewSQLiteKV(path)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", kind)
	}
}

// MemoryKV keeps values in process memory
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get returns the value stored under key
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// Close is a no-op
func (m *MemoryKV) Close() error { return nil }
