package data

import (
	"strings"
	"time"
)

const (
	MinAge = 18
	MaxAge = 100
)

var birthDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"2006-01-02",
}

// ParseBirthDate parses the "Date de naissance" text, e.g. 03/11/1951.
func ParseBirthDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range birthDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// AgeOn returns the age in whole years on the given day.
func AgeOn(born, today time.Time) int {
	age := today.Year() - born.Year()
	if today.Month() < born.Month() || (today.Month() == born.Month() && today.Day() < born.Day()) {
		age--
	}
	return age
}
