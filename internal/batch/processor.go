package batch

import (
	"fmt"
	"os"
	"strings"

	"codeberg.org/snonux/transcheck/internal/language"
)

// Entry is one text to translate, with an optional language override
type Entry struct {
	Line int
	Text string
	// Languages overrides the run's selected languages when non-empty
	Languages []string
}

// ReadBatchFile reads texts from a file and returns an Entry slice
// Supports formats:
// - Text only: "Good morning" (uses the languages selected for the run)
// - With languages: "da,sv = Good morning" (only Danish and Swedish)
// Blank lines and lines starting with '#' are ignored.
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(string(content))
}

// Parse parses batch file content
func Parse(content string) ([]Entry, error) {
	var entries []Entry

	for i, line := range splitLines(content) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := Entry{Line: i + 1, Text: line}

		// Check if line starts with a language list
		if before, after, found := strings.Cut(line, "="); found {
			codes, err := language.ParseCodes(before)
			if err == nil && len(codes) > 0 {
				entry.Text = strings.TrimSpace(after)
				entry.Languages = codes
			}
			// Anything else is plain text that happens to contain '='
		}

		if entry.Text == "" {
			return nil, fmt.Errorf("line %d: missing text", entry.Line)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// splitLines splits a string by newlines
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.Split(s, "\n")
}
