// Package results ranks finished-race participations. Banned riders are
// dropped and the rest are ordered by finish time.
//
// Finish times arrive as colon-delimited strings ("01:02:03", "59:30",
// sometimes without zero padding). They are parsed into durations before
// comparison; a lexical sort would misorder anything not strictly
// zero-padded HH:MM:SS. Unparsable times rank below parsable ones and keep
// their relative order.
package results

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pcornet/peloton/internal/raceapi"
)

// Rank returns the non-banned participations ordered by ascending finish
// time. The input is not modified.
func Rank(participations []raceapi.Participation) []raceapi.Participation {
	ranked := make([]raceapi.Participation, 0, len(participations))
	for _, p := range participations {
		if p.Banned {
			continue
		}
		ranked = append(ranked, p)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		di, oki := ParseFinishTime(ranked[i].Time)
		dj, okj := ParseFinishTime(ranked[j].Time)
		if oki && okj {
			return di < dj
		}
		// Parsable times rank above unparsable ones; ties keep input order.
		return oki && !okj
	})
	return ranked
}

// ParseFinishTime parses a colon-delimited finish time into a duration.
// One to three fields are accepted: "SS", "MM:SS", "HH:MM:SS". The last
// field may carry decimals.
func ParseFinishTime(value string) (time.Duration, bool) {
	fields := strings.Split(strings.TrimSpace(value), ":")
	if len(fields) == 0 || len(fields) > 3 {
		return 0, false
	}

	var total float64
	for i, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return 0, false
		}
		last := i == len(fields)-1
		if last {
			seconds, err := strconv.ParseFloat(field, 64)
			if err != nil || seconds < 0 {
				return 0, false
			}
			total = total*60 + seconds
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n < 0 {
			return 0, false
		}
		total = total*60 + float64(n)
	}
	return time.Duration(total * float64(time.Second)), true
}
