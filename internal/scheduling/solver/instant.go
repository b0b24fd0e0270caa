package solver

import (
	"strings"
	"time"
)

// ParseInstant parses an ISO-8601 instant the way the external request
// shapes define it: a trailing "Z" is equivalent to "+00:00", and an
// instant with no zone designator at all is naive and is interpreted in
// loc rather than defaulted to UTC by the standard library.
//
// This boundary exists so solver.Task/FixedEvent values are always
// already zoned by the time they reach Solve — the naive-instant policy
// is a parsing concern, not a solving concern.
func ParseInstant(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errEmptyInstant
	}
	if hasZoneDesignator(raw) {
		normalized := raw
		if strings.HasSuffix(normalized, "Z") {
			normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
		}
		return time.Parse(time.RFC3339, normalized)
	}
	return time.ParseInLocation("2006-01-02T15:04:05", trimFractional(raw), loc)
}

func trimFractional(raw string) string {
	if i := strings.IndexByte(raw, '.'); i >= 0 {
		return raw[:i]
	}
	return raw
}

// hasZoneDesignator reports whether raw carries an explicit UTC or
// offset designator, i.e. is not a naive local timestamp.
func hasZoneDesignator(raw string) bool {
	if strings.HasSuffix(raw, "Z") {
		return true
	}
	// look for a +HH:MM or -HH:MM suffix after the time portion (skip
	// the date's leading '-' separators by only scanning after index 10)
	if len(raw) <= 10 {
		return false
	}
	tail := raw[10:]
	return strings.ContainsAny(tail, "+-")
}

var errEmptyInstant = &instantError{"empty instant"}

type instantError struct{ msg string }

func (e *instantError) Error() string { return e.msg }
