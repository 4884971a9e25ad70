package record

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Status is the review state of a single language entry
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus converts a string into a Status
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", fmt.Errorf("invalid status %q (want pending, approved or rejected)", s)
	}
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Comment is a reviewer note attached to a language entry
type Comment struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// LanguageEntry is one language's translated text and its review state.
// It has no identity of its own and is always addressed through its
// parent record's timestamp and the language code.
type LanguageEntry struct {
	Text    string
	Status  Status
	Comment *Comment
}

// TranslationRecord is one original text and all of its translations.
// Timestamp is the creation time in unix milliseconds and doubles as the
// record's stable identifier.
type TranslationRecord struct {
	OriginalText string                   `json:"originalText"`
	Translations map[string]LanguageEntry `json:"translations"`
	Timestamp    int64                    `json:"timestamp"`
}

// New creates a record with every translation in pending state
func New(originalText string, timestamp int64, results map[string]string) *TranslationRecord {
	rec := &TranslationRecord{
		OriginalText: originalText,
		Translations: make(map[string]LanguageEntry, len(results)),
		Timestamp:    timestamp,
	}
	for code, text := range results {
		rec.Translations[code] = LanguageEntry{Text: text, Status: StatusPending}
	}
	return rec
}

// ID returns the identifier used in deep links
func (r *TranslationRecord) ID() string {
	return strconv.FormatInt(r.Timestamp, 10)
}

// Languages returns the record's language codes in sorted order
func (r *TranslationRecord) Languages() []string {
	codes := make([]string, 0, len(r.Translations))
	for code := range r.Translations {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// HasLanguage reports whether the record carries an entry for code
func (r *TranslationRecord) HasLanguage(code string) bool {
	_, ok := r.Translations[code]
	return ok
}

// HasAnyLanguage reports whether at least one of codes is present.
// An empty codes slice never matches.
func (r *TranslationRecord) HasAnyLanguage(codes []string) bool {
	for _, code := range codes {
		if r.HasLanguage(code) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record
func (r *TranslationRecord) Clone() *TranslationRecord {
	if r == nil {
		return nil
	}
	out := &TranslationRecord{
		OriginalText: r.OriginalText,
		Translations: make(map[string]LanguageEntry, len(r.Translations)),
		Timestamp:    r.Timestamp,
	}
	for code, entry := range r.Translations {
		if entry.Comment != nil {
			c := *entry.Comment
			entry.Comment = &c
		}
		out.Translations[code] = entry
	}
	return out
}

// CloneAll deep-copies a collection
func CloneAll(records []*TranslationRecord) []*TranslationRecord {
	out := make([]*TranslationRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out
}

// Validate checks the record invariants
func (r *TranslationRecord) Validate() error {
	if strings.TrimSpace(r.OriginalText) == "" {
		return errors.New("original text is empty")
	}
	if r.Timestamp <= 0 {
		return fmt.Errorf("invalid timestamp %d", r.Timestamp)
	}
	if len(r.Translations) == 0 {
		return fmt.Errorf("record %d has no translations", r.Timestamp)
	}
	for code, entry := range r.Translations {
		if !entry.Status.Valid() {
			return fmt.Errorf("record %d language %s: invalid status %q", r.Timestamp, code, entry.Status)
		}
	}
	return nil
}

// ValidateCollection validates every record and checks that timestamps are
// pairwise distinct
func ValidateCollection(records []*TranslationRecord) error {
	seen := make(map[int64]struct{}, len(records))
	for _, r := range records {
		if r == nil {
			return errors.New("nil record in collection")
		}
		if err := r.Validate(); err != nil {
			return err
		}
		if _, dup := seen[r.Timestamp]; dup {
			return fmt.Errorf("duplicate record timestamp %d", r.Timestamp)
		}
		seen[r.Timestamp] = struct{}{}
	}
	return nil
}

// Find returns the index of the record with the given timestamp, or -1
func Find(records []*TranslationRecord, timestamp int64) int {
	for i, r := range records {
		if r.Timestamp == timestamp {
			return i
		}
	}
	return -1
}
