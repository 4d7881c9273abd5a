package model

import (
	"fmt"
	"time"
)

var birthDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
	time.RFC1123,
}

// ParseBirthDate reads a birth date in any accepted layout and returns its
// canonical stored form.
func ParseBirthDate(raw string) (time.Time, error) {
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return CanonicalBirthDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized birth date %q", raw)
}

// CanonicalBirthDate is a UTC instant with whole-second precision.
func CanonicalBirthDate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
