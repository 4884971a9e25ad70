package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"codeberg.org/snonux/transcheck/internal/record"
)

// DefaultKey is the single key the whole collection is stored under
const DefaultKey = "translations"

// ErrCorrupt is returned by Load when the stored collection cannot be parsed
var ErrCorrupt = errors.New("stored translations are corrupt")

// CorruptPolicy decides what Load does with unparsable content
type CorruptPolicy int

const (
	// CorruptFail makes Load return ErrCorrupt
	CorruptFail CorruptPolicy = iota
	// CorruptReset makes Load log the problem and return an empty collection
	CorruptReset
)

// ParseCorruptPolicy maps a config value onto a policy
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return CorruptFail, nil
	case "reset", "empty":
		return CorruptReset, nil
	default:
		return CorruptFail, fmt.Errorf("unknown corrupt data policy: %s", s)
	}
}

// RecordStore loads and replaces the full translation collection
type RecordStore struct {
	kv     KV
	key    string
	policy CorruptPolicy

	// mu serialises read-modify-write sequences issued through Update
	mu sync.Mutex
}

// NewRecordStore wraps kv using DefaultKey and the fail-on-corrupt policy
func NewRecordStore(kv KV) *RecordStore {
	return &RecordStore{kv: kv, key: DefaultKey}
}

// WithPolicy sets the corrupt data policy and returns the store
func (s *RecordStore) WithPolicy(p CorruptPolicy) *RecordStore {
	s.policy = p
	return s
}

// Load returns the stored collection. Missing or blank content yields an
// empty collection.
func (s *RecordStore) Load(ctx context.Context) ([]*record.TranslationRecord, error) {
	value, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load translations: %w", err)
	}
	if !ok || strings.TrimSpace(value) == "" {
		return []*record.TranslationRecord{}, nil
	}

	records, err := record.Unmarshal([]byte(value))
	if err != nil {
		if s.policy == CorruptReset {
			log.Warn().Err(err).Str("key", s.key).Msg("Stored translations are corrupt, starting with an empty collection")
			return []*record.TranslationRecord{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return records, nil
}

// ReplaceAll serialises and persists the full collection and returns it
// unchanged
func (s *RecordStore) ReplaceAll(ctx context.Context, records []*record.TranslationRecord) ([]*record.TranslationRecord, error) {
	data, err := record.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode translations: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return nil, fmt.Errorf("failed to save translations: %w", err)
	}
	return records, nil
}

// Update runs a whole-collection read-modify-write. fn receives the loaded
// collection and returns the collection to persist.
func (s *RecordStore) Update(ctx context.Context, fn func([]*record.TranslationRecord) ([]*record.TranslationRecord, error)) ([]*record.TranslationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := fn(records)
	if err != nil {
		return nil, err
	}
	return s.ReplaceAll(ctx, updated)
}

// Prepend stores rec at the front of the collection, newest first. If the
// timestamp is already taken it is moved to the next free millisecond so
// identifiers stay unique.
func (s *RecordStore) Prepend(ctx context.Context, rec *record.TranslationRecord) ([]*record.TranslationRecord, error) {
	return s.Update(ctx, func(records []*record.TranslationRecord) ([]*record.TranslationRecord, error) {
		for record.Find(records, rec.Timestamp) >= 0 {
			rec.Timestamp++
		}
		return append([]*record.TranslationRecord{rec}, records...), nil
	})
}
