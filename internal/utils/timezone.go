package utils

import (
	"strings"
	"time"
)

// LoadLocation resolves an IANA zone name, falling back to UTC for empty or
// unknown names.
func LoadLocation(tz string) *time.Location {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}
