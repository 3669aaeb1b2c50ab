package csvio

import (
	"fmt"
	"strings"
	"time"
)

// DefaultTimeLayouts are tried in order when parsing schedule datetimes.
// Layouts carrying an offset keep it; the others are read in the configured
// location.
var DefaultTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"01/02/2006 15:04:05",
	"1/2/2006 15:04:05",
	"01/02/2006 15:04",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
}

// ParseTime parses s with the first matching layout.
func ParseTime(s string, loc *time.Location, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	if len(layouts) == 0 {
		layouts = DefaultTimeLayouts
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", s)
}
