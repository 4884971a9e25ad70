package review

import (
	"codeberg.org/snonux/transcheck/internal/record"
)

// The Apply functions are pure: they return an updated copy of the
// collection and leave the input untouched. An unknown (timestamp,
// language) pair yields an unchanged copy.

// ApplyStatus sets the status of one language entry
func ApplyStatus(records []*record.TranslationRecord, timestamp int64, lang string, status record.Status) []*record.TranslationRecord {
	return updateEntry(records, timestamp, lang, func(e *record.LanguageEntry) {
		e.Status = status
	})
}

// ApplyText overwrites the translated text of one language entry. The
// status is left as it is.
func ApplyText(records []*record.TranslationRecord, timestamp int64, lang, text string) []*record.TranslationRecord {
	return updateEntry(records, timestamp, lang, func(e *record.LanguageEntry) {
		e.Text = text
	})
}

// ApplyComment replaces the comment of one language entry
func ApplyComment(records []*record.TranslationRecord, timestamp int64, lang, text string, nowMillis int64) []*record.TranslationRecord {
	return updateEntry(records, timestamp, lang, func(e *record.LanguageEntry) {
		e.Comment = &record.Comment{Text: text, Timestamp: nowMillis}
	})
}

// Remove drops the record with the given timestamp
func Remove(records []*record.TranslationRecord, timestamp int64) []*record.TranslationRecord {
	out := make([]*record.TranslationRecord, 0, len(records))
	for _, rec := range records {
		if rec.Timestamp != timestamp {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func updateEntry(records []*record.TranslationRecord, timestamp int64, lang string, fn func(*record.LanguageEntry)) []*record.TranslationRecord {
	out := record.CloneAll(records)
	i := record.Find(out, timestamp)
	if i < 0 {
		return out
	}
	entry, ok := out[i].Translations[lang]
	if !ok {
		return out
	}
	fn(&entry)
	out[i].Translations[lang] = entry
	return out
}

// Stats summarises review progress over a collection
type Stats struct {
	Records  int `json:"records"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Comments int `json:"comments"`
}

// Summarize counts entries by status
func Summarize(records []*record.TranslationRecord) Stats {
	s := Stats{Records: len(records)}
	for _, rec := range records {
		for _, entry := range rec.Translations {
			switch entry.Status {
			case record.StatusApproved:
				s.Approved++
			case record.StatusRejected:
				s.Rejected++
			default:
				s.Pending++
			}
			if entry.Comment != nil {
				s.Comments++
			}
		}
	}
	return s
}
