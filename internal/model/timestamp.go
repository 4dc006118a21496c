package model

import "time"

// Accepted timestamp layouts, tried in order. Layouts without a zone are
// interpreted in the caller's location.
var timestampLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05 -0700", true},
	{"2006-01-02", false},
}

// ParseTimestamp parses an ISO-8601 style timestamp. Zone-less values are
// read in loc. The returned time is converted to loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.zoned {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, loc)
		}
		if err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}
