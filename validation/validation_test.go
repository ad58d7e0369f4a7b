package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func datePtr(t time.Time) *time.Time { return &t }

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims whitespace", "  Acme  ", "Acme"},
		{"escapes tags", "<script>alert(1)</script>", "&lt;script&gt;alert(1)&lt;/script&gt;"},
		{"escapes ampersand and quotes", `Tom & "Jerry's"`, "Tom &amp; &#34;Jerry&#39;s&#34;"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeString(tt.input))
		})
	}
}

func TestSanitizeStringPtr(t *testing.T) {
	assert.Nil(t, SanitizeStringPtr(nil))
	assert.Equal(t, "a &lt; b", *SanitizeStringPtr(strPtr(" a < b ")))
}

func TestValidateAlphanumeric(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		allowEmpty bool
		expected   bool
	}{
		{"letters and digits", "AB12c", false, true},
		{"hyphen rejected", "AB-12", false, false},
		{"space rejected", "AB 12", false, false},
		{"empty rejected by default", "", false, false},
		{"empty allowed", "", true, true},
		{"unicode rejected", "ÀB12", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateAlphanumeric(tt.input, tt.allowEmpty))
		})
	}
}

func TestValidateLength(t *testing.T) {
	assert.True(t, ValidateLength("abcde", 5, 7))
	assert.True(t, ValidateLength("abcdefg", 5, 7))
	assert.False(t, ValidateLength("abcd", 5, 7))
	assert.False(t, ValidateLength("abcdefgh", 5, 7))
	assert.True(t, ValidateLength("a very long password indeed", 8, NoMax))
	assert.True(t, ValidateLength("héllo", 5, 5), "length counts runes, not bytes")

	assert.True(t, ValidateLengthPtr(nil, 0, 5), "nil counts as length 0")
	assert.False(t, ValidateLengthPtr(nil, 1, 5))
}

func TestValidateDateNotInPast(t *testing.T) {
	today := Today()

	assert.True(t, ValidateDateNotInPast(nil))
	assert.True(t, ValidateDateNotInPast(datePtr(today)))
	assert.True(t, ValidateDateNotInPast(datePtr(today.AddDate(0, 0, 1))))
	assert.False(t, ValidateDateNotInPast(datePtr(today.AddDate(0, 0, -1))))
}

func TestValidateDateNotInPastUsesCalendarDate(t *testing.T) {
	original := Now
	defer func() { Now = original }()
	Now = func() time.Time { return time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC) }

	assert.True(t, ValidateDateNotInPast(datePtr(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC))),
		"earlier clock time on the same day is not in the past")
	assert.False(t, ValidateDateNotInPast(datePtr(time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC))))
}

func TestValidateDateRange(t *testing.T) {
	start := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	assert.True(t, ValidateDateRange(nil, nil))
	assert.True(t, ValidateDateRange(&start, nil))
	assert.True(t, ValidateDateRange(nil, &start))
	assert.True(t, ValidateDateRange(&start, &start), "same day is a valid range")
	assert.True(t, ValidateDateRange(&start, datePtr(start.AddDate(0, 0, 3))))
	assert.False(t, ValidateDateRange(&start, datePtr(start.AddDate(0, 0, -1))))
}

func TestValidateNumberRange(t *testing.T) {
	assert.True(t, ValidateNumberRange(nil, Float(1), Float(10)))
	assert.True(t, ValidateNumberRange(Float(1), Float(1), Float(10)))
	assert.True(t, ValidateNumberRange(Float(10), Float(1), Float(10)))
	assert.False(t, ValidateNumberRange(Float(0), Float(1), Float(10)))
	assert.False(t, ValidateNumberRange(Float(11), Float(1), Float(10)))
	assert.True(t, ValidateNumberRange(Float(1e9), Float(0), nil), "nil max is open")
	assert.True(t, ValidateNumberRange(Float(-5), nil, Float(0)), "nil min is open")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-04-01")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDate("  ")
	assert.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("04/01/2026")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}
