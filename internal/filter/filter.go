// Package filter derives the visible race list from the catalog and the
// user's search term and filter criteria. Everything here is pure: the
// same inputs always produce the same output, and catalog order is
// preserved.
package filter

import (
	"strings"
	"time"

	"github.com/pcornet/peloton/internal/raceapi"
)

// DistanceBucket groups races by distance. A race with a missing or
// unparsable distance counts as 0 km and lands in the short bucket.
type DistanceBucket string

const (
	DistanceAny    DistanceBucket = ""
	DistanceShort  DistanceBucket = "short"  // up to 50 km
	DistanceMedium DistanceBucket = "medium" // 51-100 km
	DistanceLong   DistanceBucket = "long"   // over 100 km
)

// Criteria is the transient filter state. The zero value matches every
// upcoming race.
type Criteria struct {
	Search   string
	Category string
	Distance DistanceBucket
	Location string
	Gender   string
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return strings.TrimSpace(c.Search) == "" &&
		c.Category == "" &&
		c.Distance == DistanceAny &&
		strings.TrimSpace(c.Location) == "" &&
		strings.TrimSpace(c.Gender) == ""
}

// Apply returns the races matching all criteria, in input order. Races
// dated before the current day are always excluded.
func Apply(races []raceapi.Race, c Criteria, now time.Time) []raceapi.Race {
	out := make([]raceapi.Race, 0, len(races))
	for _, race := range races {
		if isPast(race, now) {
			continue
		}
		if !matchesSearch(race, c.Search) {
			continue
		}
		if c.Category != "" && race.Category != c.Category {
			continue
		}
		if c.Distance != DistanceAny && BucketFor(float64(race.DistanceKM)) != c.Distance {
			continue
		}
		if !matchesLocation(race, c.Location) {
			continue
		}
		if !matchesGender(race, c.Gender) {
			continue
		}
		out = append(out, race)
	}
	return out
}

// BucketFor maps a distance in kilometers to its bucket.
func BucketFor(km float64) DistanceBucket {
	switch {
	case km <= 50:
		return DistanceShort
	case km <= 100:
		return DistanceMedium
	default:
		return DistanceLong
	}
}

// isPast excludes races dated strictly before the current day. Races with
// an unparsable date stay visible.
func isPast(race raceapi.Race, now time.Time) bool {
	date := race.ParsedDate()
	if date.IsZero() {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	raceDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return raceDay.Before(today)
}

func matchesSearch(race raceapi.Race, term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(race.Name), strings.ToLower(term))
}

func matchesLocation(race raceapi.Race, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(race.Location), strings.ToLower(needle))
}

func matchesGender(race raceapi.Race, gender string) bool {
	gender = strings.TrimSpace(gender)
	if gender == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(race.Gender), gender)
}
