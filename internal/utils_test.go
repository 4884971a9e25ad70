package internal

import (
	"testing"
	"time"
)

func TestMonotonicClock(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	clock := NewClockAt(func() time.Time { return fixed })

	first := clock.NowMillis()
	second := clock.NowMillis()
	if first != 1700000000000 {
		t.Errorf("first = %d, want 1700000000000", first)
	}
	if second <= first {
		t.Errorf("timestamps not increasing: %d then %d", first, second)
	}

	// Wall clock stepping backwards must not produce an older timestamp
	fixed = time.UnixMilli(1600000000000)
	if third := clock.NowMillis(); third <= second {
		t.Errorf("timestamp went backwards: %d after %d", third, second)
	}
}

func TestFormatTimestamp(t *testing.T) {
	ms := time.Date(2024, 3, 5, 14, 7, 0, 0, time.Local).UnixMilli()
	if got := FormatTimestamp(ms); got != "05/03/2024, 14:07" {
		t.Errorf("FormatTimestamp() = %q", got)
	}
}
