package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"codeberg.org/snonux/transcheck/internal"
	"codeberg.org/snonux/transcheck/internal/language"
	"codeberg.org/snonux/transcheck/internal/record"
)

// printRecords renders the review view. highlight is the index of the deep
// linked record or -1.
func printRecords(w io.Writer, records []*record.TranslationRecord, total, activeFilters, highlight int) {
	switch activeFilters {
	case 0:
		fmt.Fprintf(w, "Showing %d of %d records\n", len(records), total)
	case 1:
		fmt.Fprintf(w, "Showing %d of %d records (1 filter active)\n", len(records), total)
	default:
		fmt.Fprintf(w, "Showing %d of %d records (%d filters active)\n", len(records), total, activeFilters)
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "\nNo translations found")
		return
	}

	for i, rec := range records {
		marker := " "
		if i == highlight {
			marker = ">"
		}
		fmt.Fprintf(w, "\n%s [%s] %s  %s\n", marker, rec.ID(), internal.FormatTimestamp(rec.Timestamp), rec.OriginalText)

		for _, code := range language.Codes() {
			entry, ok := rec.Translations[code]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "    %-6s %-15s %-10s %s\n", code, language.DisplayName(code), "["+string(entry.Status)+"]", entry.Text)
			if entry.Comment != nil {
				fmt.Fprintf(w, "           comment (%s): %s\n", internal.FormatTimestamp(entry.Comment.Timestamp), entry.Comment.Text)
			}
		}
	}
}

type jsonRecord struct {
	*record.TranslationRecord
	Highlighted bool `json:"highlighted"`
}

func printJSON(w io.Writer, records []*record.TranslationRecord, highlight int) error {
	out := make([]jsonRecord, len(records))
	for i, rec := range records {
		out[i] = jsonRecord{TranslationRecord: rec, Highlighted: i == highlight}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
