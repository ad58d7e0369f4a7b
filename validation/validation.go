// Package validation holds the primitive checks and the shared rule table used
// by both the model write hooks and the service layer.
package validation

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// NoMax disables the upper bound in ValidateLength.
const NoMax = -1

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var alphanumeric = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// SanitizeString trims surrounding whitespace and HTML-escapes the rest.
func SanitizeString(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// SanitizeStringPtr is SanitizeString for optional values; nil stays nil.
func SanitizeStringPtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeString(*s)
	return &clean
}

// ValidateAlphanumeric reports whether s consists only of ASCII letters and
// digits. An empty string is accepted only when allowEmpty is set.
func ValidateAlphanumeric(s string, allowEmpty bool) bool {
	if s == "" {
		return allowEmpty
	}
	return alphanumeric.MatchString(s)
}

// ValidateLength reports whether min <= len(s) <= max, counting runes.
// Pass NoMax for an open upper bound.
func ValidateLength(s string, min, max int) bool {
	n := utf8.RuneCountInString(s)
	if n < min {
		return false
	}
	return max < 0 || n <= max
}

// ValidateLengthPtr treats nil as the empty string.
func ValidateLengthPtr(s *string, min, max int) bool {
	if s == nil {
		return ValidateLength("", min, max)
	}
	return ValidateLength(*s, min, max)
}

// ValidateDateNotInPast reports whether d is nil or falls on today or later.
func ValidateDateNotInPast(d *time.Time) bool {
	if d == nil {
		return true
	}
	return !DateOnly(*d).Before(Today())
}

// ValidateDateRange reports whether end is on or after start. A missing bound
// always passes.
func ValidateDateRange(start, end *time.Time) bool {
	if start == nil || end == nil {
		return true
	}
	return !DateOnly(*end).Before(DateOnly(*start))
}

// ValidateNumberRange reports whether n is nil or within [min, max]. A nil
// bound is open.
func ValidateNumberRange(n, min, max *float64) bool {
	if n == nil {
		return true
	}
	if min != nil && *n < *min {
		return false
	}
	if max != nil && *n > *max {
		return false
	}
	return true
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected format YYYY-MM-DD", s)
	}
	return &d, nil
}

// DateOnly drops the clock part of t, keeping its calendar date.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the current calendar date. Tests may replace Now.
func Today() time.Time {
	return DateOnly(Now())
}

// Now is the clock used by the date rules.
var Now = time.Now

// Float returns a pointer to v, for number-range bounds.
func Float(v float64) *float64 {
	return &v
}
