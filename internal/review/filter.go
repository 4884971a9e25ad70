package review

import (
	"fmt"
	"strings"
	"time"

	"codeberg.org/snonux/transcheck/internal/record"
)

// TimeRange limits the view to records created within a recent window
type TimeRange string

const (
	RangeAll   TimeRange = "all"
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

const day = 24 * time.Hour

// ParseTimeRange converts a string into a TimeRange; empty means all
func ParseTimeRange(s string) (TimeRange, error) {
	switch r := TimeRange(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RangeAll, nil
	case RangeAll, RangeToday, RangeWeek, RangeMonth:
		return r, nil
	default:
		return "", fmt.Errorf("invalid time range %q (want all, today, week or month)", s)
	}
}

// Threshold returns the window length, zero for RangeAll
func (r TimeRange) Threshold() time.Duration {
	switch r {
	case RangeToday:
		return day
	case RangeWeek:
		return 7 * day
	case RangeMonth:
		return 30 * day
	default:
		return 0
	}
}

// Filter selects which records the review view shows
type Filter struct {
	// Languages keeps records with at least one of these languages; empty
	// keeps everything
	Languages []string
	Range     TimeRange
}

// Active returns how many filter dimensions are narrowing the view
func (f Filter) Active() int {
	n := 0
	if f.Range != "" && f.Range != RangeAll {
		n++
	}
	if len(f.Languages) > 0 {
		n++
	}
	return n
}

// Matches reports whether rec passes both the language and the time filter
func (f Filter) Matches(rec *record.TranslationRecord, nowMillis int64) bool {
	if len(f.Languages) > 0 && !rec.HasAnyLanguage(f.Languages) {
		return false
	}
	if threshold := f.Range.Threshold(); threshold > 0 {
		if nowMillis-rec.Timestamp >= threshold.Milliseconds() {
			return false
		}
	}
	return true
}

// FilterRecords returns the records passing f, in their stored order. The
// input collection is not modified.
func FilterRecords(records []*record.TranslationRecord, f Filter, nowMillis int64) []*record.TranslationRecord {
	out := make([]*record.TranslationRecord, 0, len(records))
	for _, rec := range records {
		if f.Matches(rec, nowMillis) {
			out = append(out, rec)
		}
	}
	return out
}
