package archive

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/compress/zstd"

	"codeberg.org/snonux/transcheck/internal/record"
)

const (
	filePrefix       = "translations-"
	yamlSuffix       = ".yaml"
	compressedSuffix = ".zst"
)

// Snapshot is the on-disk layout of an archived collection
type Snapshot struct {
	CreatedAt time.Time        `yaml:"created_at"`
	Count     int              `yaml:"count"`
	Records   []SnapshotRecord `yaml:"records"`
}

// SnapshotRecord is one archived translation record
type SnapshotRecord struct {
	Timestamp    int64           `yaml:"timestamp"`
	OriginalText string          `yaml:"original_text"`
	Translations []SnapshotEntry `yaml:"translations"`
}

// SnapshotEntry is one archived language entry
type SnapshotEntry struct {
	Language string           `yaml:"language"`
	Text     string           `yaml:"text"`
	Status   string           `yaml:"status"`
	Comment  *SnapshotComment `yaml:"comment,omitempty"`
}

// SnapshotComment is the reviewer comment of an archived entry. A present
// comment may have empty text.
type SnapshotComment struct {
	Text      string `yaml:"text"`
	Timestamp int64  `yaml:"timestamp"`
}

// Options controls how a snapshot is written
type Options struct {
	Compress bool
	// Now overrides the snapshot time, mostly for tests
	Now func() time.Time
}

// NewSnapshot converts the collection into its archived form, keeping
// the stored record order and sorting languages by code
func NewSnapshot(records []*record.TranslationRecord, createdAt time.Time) *Snapshot {
	snap := &Snapshot{
		CreatedAt: createdAt,
		Count:     len(records),
		Records:   make([]SnapshotRecord, 0, len(records)),
	}

	for _, rec := range records {
		sr := SnapshotRecord{Timestamp: rec.Timestamp, OriginalText: rec.OriginalText}
		for _, code := range rec.Languages() {
			entry := rec.Translations[code]
			se := SnapshotEntry{Language: code, Text: entry.Text, Status: string(entry.Status)}
			if entry.Comment != nil {
				se.Comment = &SnapshotComment{Text: entry.Comment.Text, Timestamp: entry.Comment.Timestamp}
			}
			sr.Translations = append(sr.Translations, se)
		}
		snap.Records = append(snap.Records, sr)
	}
	return snap
}

// ToRecords converts the snapshot back into a validated collection
func (s *Snapshot) ToRecords() ([]*record.TranslationRecord, error) {
	records := make([]*record.TranslationRecord, 0, len(s.Records))
	for _, sr := range s.Records {
		rec := &record.TranslationRecord{
			OriginalText: sr.OriginalText,
			Translations: make(map[string]record.LanguageEntry, len(sr.Translations)),
			Timestamp:    sr.Timestamp,
		}
		for _, se := range sr.Translations {
			status, err := record.ParseStatus(se.Status)
			if err != nil {
				return nil, fmt.Errorf("record %d, %s: %w", sr.Timestamp, se.Language, err)
			}
			entry := record.LanguageEntry{Text: se.Text, Status: status}
			if se.Comment != nil {
				entry.Comment = &record.Comment{Text: se.Comment.Text, Timestamp: se.Comment.Timestamp}
			}
			rec.Translations[se.Language] = entry
		}
		records = append(records, rec)
	}

	if err := record.ValidateCollection(records); err != nil {
		return nil, err
	}
	return records, nil
}

// ArchiveRecords writes a timestamped snapshot of records into archiveDir
// and returns the path of the new file
func ArchiveRecords(archiveDir string, records []*record.TranslationRecord, opts Options) (string, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	createdAt := now()
	data, err := yaml.MarshalWithOptions(NewSnapshot(records, createdAt), yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if opts.Compress {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return "", fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}

	archivePath := filepath.Join(archiveDir, fileName(createdAt.Format("20060102-150405"), opts.Compress))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		archivePath = filepath.Join(archiveDir, fileName(createdAt.Format("20060102-150405.000000"), opts.Compress))
	}

	if err := os.WriteFile(archivePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	return archivePath, nil
}

func fileName(stamp string, compress bool) string {
	name := filePrefix + stamp + yamlSuffix
	if compress {
		name += compressedSuffix
	}
	return name
}

// ReadSnapshot loads a snapshot written by ArchiveRecords. Compression is
// detected from the file extension.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	if strings.HasSuffix(path, compressedSuffix) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		defer dec.Close()
		if data, err = dec.DecodeAll(data, nil); err != nil {
			return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
		}
	}

	var snap Snapshot
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// List returns the snapshot files in archiveDir, oldest first
func List(archiveDir string) ([]string, error) {
	entries, err := os.ReadDir(archiveDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if strings.HasSuffix(name, yamlSuffix) || strings.HasSuffix(name, yamlSuffix+compressedSuffix) {
			paths = append(paths, filepath.Join(archiveDir, name))
		}
	}
	return paths, nil
}
