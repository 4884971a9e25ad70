package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/transcheck/internal/record"
	"codeberg.org/snonux/transcheck/internal/store"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// NewMemoryStore returns a record store backed by memory
func NewMemoryStore(t *testing.T) *store.RecordStore {
	t.Helper()
	return store.NewRecordStore(store.NewMemoryKV())
}

// SeedStore writes records into s and fails the test on error
func SeedStore(t *testing.T, s *store.RecordStore, records ...*record.TranslationRecord) {
	t.Helper()

	if _, err := s.ReplaceAll(t.Context(), records); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}
}

// LoadStore reads all records from s and fails the test on error
func LoadStore(t *testing.T, s *store.RecordStore) []*record.TranslationRecord {
	t.Helper()

	records, err := s.Load(t.Context())
	if err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	return records
}

// Record builds a record with the given translations, all pending
func Record(text string, timestamp int64, translations map[string]string) *record.TranslationRecord {
	return record.New(text, timestamp, translations)
}
