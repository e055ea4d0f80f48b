package service

import (
	"testing"
	"time"
)

func TestParseRequest_PartySizeBoundaries(t *testing.T) {
	for _, guests := range []string{"1", "10"} {
		if _, err := ParseRequest(guests, "2024-06-01T10:00:00", "1.0"); err != nil {
			t.Fatalf("guests=%s: expected valid, got %v", guests, err)
		}
	}
	for _, guests := range []string{"0", "11", "-1", "two", "2.5", ""} {
		_, err := ParseRequest(guests, "2024-06-01T10:00:00", "1.0")
		if KindOf(err) != KindInvalidInput {
			t.Fatalf("guests=%q: expected KindInvalidInput, got %v", guests, err)
		}
	}
}

func TestParseRequest_DurationBoundaries(t *testing.T) {
	for _, dur := range []string{"0.5", "6.0", "1", "2.25"} {
		if _, err := ParseRequest("2", "2024-06-01T10:00:00", dur); err != nil {
			t.Fatalf("duration=%s: expected valid, got %v", dur, err)
		}
	}
	for _, dur := range []string{"0.49", "6.01", "0", "-1", "abc", ""} {
		_, err := ParseRequest("2", "2024-06-01T10:00:00", dur)
		if KindOf(err) != KindInvalidInput {
			t.Fatalf("duration=%q: expected KindInvalidInput, got %v", dur, err)
		}
	}
}

func TestParseRequest_StartFormats(t *testing.T) {
	valid := []string{
		"2024-06-01T10:00:00",
		"2024-06-01T10:00:00Z",
		"2024-06-01T10:00:00.250",
		"2024-06-01T23:59:59.999Z",
	}
	for _, s := range valid {
		if _, err := ParseRequest("2", s, "1.0"); err != nil {
			t.Fatalf("start=%q: expected valid, got %v", s, err)
		}
	}

	invalid := []string{
		"2024-06-01 10:00:00",     // missing T
		"2024-6-1T10:00:00",       // single-digit month/day
		"2024-06-01T10:00",        // missing seconds
		"2024-06-01T24:00:00",     // hour out of range
		"2024-06-01T10:60:00",     // minute out of range
		"2024-13-01T10:00:00",     // month out of range
		"2024-02-30T10:00:00",     // syntactically fine, not a real date
		"12024-06-01T10:00:00",    // passes the shape check, fails the parse
		"2024-06-01T10:00:00+02",  // offsets are not part of the contract
		"junk",
		"",
	}
	for _, s := range invalid {
		_, err := ParseRequest("2", s, "1.0")
		if KindOf(err) != KindInvalidInput {
			t.Fatalf("start=%q: expected KindInvalidInput, got %v", s, err)
		}
	}
}

func TestParseRequest_Window(t *testing.T) {
	req, err := ParseRequest("4", "2024-06-01T18:30:00", "1.5")
	if err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	wantStart := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	if !req.StartsAt.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, req.StartsAt)
	}
	if !req.EndsAt.Equal(wantStart.Add(90 * time.Minute)) {
		t.Fatalf("expected end 90m after start, got %v", req.EndsAt)
	}
	if req.PartySize != 4 {
		t.Fatalf("expected party size 4, got %d", req.PartySize)
	}
}

func TestParseRequest_TruncatesToMilliseconds(t *testing.T) {
	req, err := ParseRequest("2", "2024-06-01T11:00:00.0005", "1.0")
	if err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	wantStart := time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)
	if !req.StartsAt.Equal(wantStart) {
		t.Fatalf("expected sub-millisecond fraction truncated to %v, got %v", wantStart, req.StartsAt)
	}
	if !req.EndsAt.Equal(wantStart.Add(time.Hour)) {
		t.Fatalf("expected end at %v, got %v", wantStart.Add(time.Hour), req.EndsAt)
	}
	if req.StartsAt.Nanosecond()%int(time.Millisecond) != 0 || req.EndsAt.Nanosecond()%int(time.Millisecond) != 0 {
		t.Fatalf("window carries sub-millisecond precision: [%v, %v]", req.StartsAt, req.EndsAt)
	}
}

func TestOverlaps_InclusiveBoundaries(t *testing.T) {
	at := func(h, m, ms int) time.Time {
		return time.Date(2024, 6, 1, h, m, 0, ms*int(time.Millisecond), time.UTC)
	}
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd time.Time
		want                       bool
	}{
		{"disjoint", at(10, 0, 0), at(11, 0, 0), at(12, 0, 0), at(13, 0, 0), false},
		{"contained", at(10, 0, 0), at(12, 0, 0), at(10, 30, 0), at(11, 0, 0), true},
		{"partial", at(10, 0, 0), at(11, 0, 0), at(10, 30, 0), at(11, 30, 0), true},
		{"touching end", at(10, 0, 0), at(11, 0, 0), at(11, 0, 0), at(12, 0, 0), true},
		{"touching start", at(11, 0, 0), at(12, 0, 0), at(10, 0, 0), at(11, 0, 0), true},
		{"millisecond apart", at(10, 0, 0), at(11, 0, 0), at(11, 0, 1), at(12, 0, 0), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
			t.Fatalf("%s: Overlaps=%v, want %v", tc.name, got, tc.want)
		}
		// The predicate is symmetric.
		if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
			t.Fatalf("%s (swapped): Overlaps=%v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != 0 {
		t.Fatalf("expected 0 for nil error")
	}
	if KindOf(invalidf("x")) != KindInvalidInput {
		t.Fatalf("expected KindInvalidInput")
	}
	if KindOf(notFoundf("x")) != KindNotFound {
		t.Fatalf("expected KindNotFound")
	}
	if KindOf(conflictf("x")) != KindConflict {
		t.Fatalf("expected KindConflict")
	}
}
