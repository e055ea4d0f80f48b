package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Business policy for a single booking.  Party size and duration limits
// are enforced before any table is considered.
const (
	PartySizeMin = 1
	PartySizeMax = 10

	DurationMinHours = 0.5
	DurationMaxHours = 6.0
)

// isoDateTime accepts strict ISO-8601 extended date-times: 4+ digit
// year, two-digit month/day/hour/minute/second, optional fractional
// seconds, optional trailing Z.  The pattern checks shape only; the
// semantic parse below rejects calendrically invalid instants such as
// February 30th.
var isoDateTime = regexp.MustCompile(`^\d{4,}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z?$`)

// Request is a validated booking request: the exact window the engine
// allocates against.  EndsAt is derived as StartsAt + duration.
type Request struct {
	PartySize int
	StartsAt  time.Time
	EndsAt    time.Time
}

// ParseRequest converts raw string parameters into a well-formed booking
// request.  It is a pure function: any violation of the input contract
// yields a KindInvalidInput error and no other effect.
//
//  guests   – integer in [PartySizeMin, PartySizeMax]
//  start    – strict ISO-8601 date-time, naive or with a trailing Z,
//             both syntactically valid and a real calendar instant
//  duration – real number of hours in [DurationMinHours, DurationMaxHours]
func ParseRequest(guests, start, duration string) (Request, error) {
	size, err := strconv.Atoi(strings.TrimSpace(guests))
	if err != nil {
		return Request{}, invalidf("guests must be an integer: %q", guests)
	}
	if size < PartySizeMin || size > PartySizeMax {
		return Request{}, invalidf("guests must be between %d and %d, got %d", PartySizeMin, PartySizeMax, size)
	}

	startsAt, err := parseStart(strings.TrimSpace(start))
	if err != nil {
		return Request{}, err
	}

	hours, err := strconv.ParseFloat(strings.TrimSpace(duration), 64)
	if err != nil {
		return Request{}, invalidf("duration must be a number of hours: %q", duration)
	}
	if hours < DurationMinHours || hours > DurationMaxHours {
		return Request{}, invalidf("duration must be between %.1f and %.1f hours, got %g", DurationMinHours, DurationMaxHours, hours)
	}

	return Request{
		PartySize: size,
		StartsAt:  startsAt,
		EndsAt:    startsAt.Add(time.Duration(hours * float64(time.Hour))).Truncate(time.Millisecond),
	}, nil
}

// parseStart validates the ISO-8601 shape with the regexp and then parses
// the instant with the time package.  Both checks must pass: the regexp
// does not know how many days February has and time.Parse alone is more
// lenient about the shape than the API contract allows.
func parseStart(s string) (time.Time, error) {
	if !isoDateTime.MatchString(s) {
		return time.Time{}, invalidf("start must be an ISO-8601 date-time (YYYY-MM-DDTHH:MM:SS[.fff][Z]): %q", s)
	}
	// The trailing Z carries no offset information beyond UTC, which is
	// also what a naive timestamp means to this service.
	t, err := time.Parse("2006-01-02T15:04:05", strings.TrimSuffix(s, "Z"))
	if err != nil {
		return time.Time{}, invalidf("start is not a valid calendar instant: %q", s)
	}
	// Windows are held at millisecond precision, the same precision the
	// store persists.  Finer fractions are truncated here so the overlap
	// check runs against the instant that will actually be recorded.
	return t.UTC().Truncate(time.Millisecond), nil
}

// Overlaps reports whether the intervals [aStart, aEnd] and
// [bStart, bEnd] share at least one point.  Boundaries are inclusive:
// a reservation ending exactly when another begins counts as a conflict.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
