package record

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// entryJSON is the persisted layout of a language entry. The comment field
// is kept raw because older data stored it as a plain string with the
// time in a sibling commentTimestamp field.
type entryJSON struct {
	Text             string          `json:"text"`
	Status           Status          `json:"status,omitempty"`
	Comment          json.RawMessage `json:"comment,omitempty"`
	CommentTimestamp int64           `json:"commentTimestamp,omitempty"`
}

// MarshalJSON writes the canonical entry layout
func (e LanguageEntry) MarshalJSON() ([]byte, error) {
	out := entryJSON{
		Text:   e.Text,
		Status: e.Status,
	}
	if out.Status == "" {
		out.Status = StatusPending
	}
	if e.Comment != nil {
		raw, err := json.Marshal(e.Comment)
		if err != nil {
			return nil, err
		}
		out.Comment = raw
		out.CommentTimestamp = e.Comment.Timestamp
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads both the canonical and the legacy entry layout and
// normalises the comment to a single Comment value
func (e *LanguageEntry) UnmarshalJSON(data []byte) error {
	var in entryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	status := in.Status
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", in.Status)
	}

	comment, err := decodeComment(in.Comment, in.CommentTimestamp)
	if err != nil {
		return err
	}

	*e = LanguageEntry{
		Text:    in.Text,
		Status:  status,
		Comment: comment,
	}
	return nil
}

func decodeComment(raw json.RawMessage, fallbackTS int64) (*Comment, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		return &Comment{Text: text, Timestamp: fallbackTS}, nil
	case '{':
		var c Comment
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("decode comment: %w", err)
		}
		if c.Timestamp == 0 {
			c.Timestamp = fallbackTS
		}
		return &c, nil
	default:
		return nil, fmt.Errorf("decode comment: unexpected value %s", raw)
	}
}

// Marshal serialises a collection into the persisted array layout
func Marshal(records []*TranslationRecord) ([]byte, error) {
	if records == nil {
		records = []*TranslationRecord{}
	}
	return json.Marshal(records)
}

// Unmarshal parses the persisted array layout
func Unmarshal(data []byte) ([]*TranslationRecord, error) {
	var records []*TranslationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	for _, r := range records {
		if r == nil {
			return nil, fmt.Errorf("null record in collection")
		}
		if r.Translations == nil {
			r.Translations = map[string]LanguageEntry{}
		}
	}
	return records, nil
}
