package deeplink

import (
	"fmt"
	"net/url"
	"strings"

	"codeberg.org/snonux/transcheck/internal/record"
)

// Query parameter names
const (
	ParamID   = "id"
	ParamLang = "lang"
)

// Params are the deep-link navigation parameters. Both are optional; an
// empty ID means nothing is highlighted.
type Params struct {
	ID   string
	Lang string
}

// FromValues reads the deep-link parameters from a query string
func FromValues(v url.Values) Params {
	return Params{
		ID:   strings.TrimSpace(v.Get(ParamID)),
		Lang: strings.TrimSpace(v.Get(ParamLang)),
	}
}

// Empty reports whether no record is targeted
func (p Params) Empty() bool {
	return p.ID == ""
}

// Matches reports whether rec is the one the link points to. When Lang is
// set the record must also carry that language.
func Matches(rec *record.TranslationRecord, p Params) bool {
	if p.Empty() || rec.ID() != p.ID {
		return false
	}
	return p.Lang == "" || rec.HasLanguage(p.Lang)
}

// Resolve returns the index of the first record in the filtered view that
// the link points to. Records outside the view are never considered.
func Resolve(filtered []*record.TranslationRecord, p Params) (int, bool) {
	if p.Empty() {
		return -1, false
	}
	for i, rec := range filtered {
		if Matches(rec, p) {
			return i, true
		}
	}
	return -1, false
}

// Link builds a deep link to rec under base. lang may be empty.
func Link(base string, rec *record.TranslationRecord, lang string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}

	q := u.Query()
	q.Set(ParamID, rec.ID())
	if lang != "" {
		q.Set(ParamLang, lang)
	} else {
		q.Del(ParamLang)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
