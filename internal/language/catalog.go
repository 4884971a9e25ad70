package language

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language is a target language as shown to the user
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ErrUnknownLanguage is wrapped by every error about a code outside the
// catalog
var ErrUnknownLanguage = errors.New("unknown language")

// catalog is the canonical order. Orchestration runs always walk languages
// in this order regardless of how they were selected.
var catalog = []Language{
	{Code: "da", Name: "Danish"},
	{Code: "sv", Name: "Swedish"},
	{Code: "no", Name: "Norwegian"},
	{Code: "fi", Name: "Finnish"},
	{Code: "de", Name: "German"},
	{Code: "nl", Name: "Dutch"},
	{Code: "fr-BE", Name: "Belgian French"},
	{Code: "nl-BE", Name: "Belgian Dutch"},
	{Code: "es", Name: "Spanish"},
}

// All returns a copy of the catalog in canonical order
func All() []Language {
	out := make([]Language, len(catalog))
	copy(out, catalog)
	return out
}

// Codes returns all language codes in canonical order
func Codes() []string {
	codes := make([]string, len(catalog))
	for i, l := range catalog {
		codes[i] = l.Code
	}
	return codes
}

// ByCode looks up a language by its code
func ByCode(code string) (Language, bool) {
	for _, l := range catalog {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// DisplayName returns the display name for code, or code itself if unknown
func DisplayName(code string) string {
	if l, ok := ByCode(code); ok {
		return l.Name
	}
	return code
}

// Canonical returns the selected languages in catalog order without
// duplicates. Unknown codes are an error.
func Canonical(selected []string) ([]Language, error) {
	want := make(map[string]bool, len(selected))
	for _, code := range selected {
		if _, ok := ByCode(code); !ok {
			return nil, fmt.Errorf("%w code %q", ErrUnknownLanguage, code)
		}
		want[code] = true
	}

	var out []Language
	for _, l := range catalog {
		if want[l.Code] {
			out = append(out, l)
		}
	}
	return out, nil
}

// ParseCodes splits a comma separated list of language codes and validates
// every entry. Codes are matched case-insensitively against the catalog.
func ParseCodes(csv string) ([]string, error) {
	var codes []string
	for _, part := range strings.Split(csv, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		code, err := Normalize(part)
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// Normalize validates code as a BCP 47 tag and maps it onto the catalog's
// spelling (e.g. "fr-be" becomes "fr-BE")
func Normalize(code string) (string, error) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("%w: invalid code %q: %v", ErrUnknownLanguage, code, err)
	}
	for _, l := range catalog {
		if strings.EqualFold(l.Code, code) {
			return l.Code, nil
		}
		// Catalog tags are parsed the same way so canonicalisation applies
		// to both sides.
		if known, err := language.Parse(l.Code); err == nil && known == tag {
			return l.Code, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported code %q", ErrUnknownLanguage, code)
}
