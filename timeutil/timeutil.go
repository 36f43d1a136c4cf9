// Package timeutil formats and parses the textual timestamp
// representations a traits.TimestampFormat override selects, for
// properties that choose not to use the default Unix-nanoseconds
// DateTime wire form.
package timeutil

import (
	"time"
)

const (
	// dateTimeFormat is a RFC3339-ish date-time, as used by Smithy's
	// date-time timestamp format.
	dateTimeFormat = "2006-01-02T15:04:05.999999999Z"

	// httpDateFormat is an IMF-fixdate, as used by Smithy's http-date
	// timestamp format.
	httpDateFormat = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// FormatDateTime formats value per the "date-time" timestamp format.
func FormatDateTime(value time.Time) string {
	return value.UTC().Format(dateTimeFormat)
}

// ParseDateTime parses a "date-time" formatted string.
func ParseDateTime(value string) (time.Time, error) {
	return time.Parse(dateTimeFormat, value)
}

// FormatHTTPDate formats value per the "http-date" timestamp format.
func FormatHTTPDate(value time.Time) string {
	return value.UTC().Format(httpDateFormat)
}

// ParseHTTPDate parses an "http-date" formatted string.
func ParseHTTPDate(value string) (time.Time, error) {
	return time.Parse(httpDateFormat, value)
}

// FormatEpochSeconds returns value as Unix time in fractional seconds, as
// used by Smithy's "epoch-seconds" timestamp format.
func FormatEpochSeconds(value time.Time) float64 {
	return float64(value.UnixNano()) / float64(time.Second)
}

// ParseEpochSeconds is the inverse of FormatEpochSeconds.
func ParseEpochSeconds(value float64) time.Time {
	return time.Unix(0, int64(value*float64(time.Second))).UTC()
}
