package headers

import (
	"time"
)

// DateLayout renders timestamps the way Last-Modified and If-Modified-Since carry them,
// e.g. "Sun, 06 Nov 1994 08:49:37 GMT".
const DateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// FormatDate formats the time in GMT. Go's layouts are locale-independent, so the day
// and month names are always English.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate reverts FormatDate.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}
