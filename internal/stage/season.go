package stage

import "strings"

// Season labels the recruiting cycle an application targets.
type Season string

const (
	Summer   Season = "Summer"
	Fall     Season = "Fall"
	Winter   Season = "Winter"
	FullTime Season = "Full time"
)

var allSeasons = []Season{Summer, Fall, Winter, FullTime}

var seasonAliases = map[string]Season{
	"summer":    Summer,
	"fall":      Fall,
	"autumn":    Fall,
	"winter":    Winter,
	"full time": FullTime,
	"full-time": FullTime,
	"fulltime":  FullTime,
	"ft":        FullTime,
}

// Seasons returns every recognized season.
func Seasons() []Season {
	out := make([]Season, len(allSeasons))
	copy(out, allSeasons)
	return out
}

// ParseSeason maps free-form user input onto a canonical season, ignoring
// case and accepting "full-time" and "fulltime" spellings.
func ParseSeason(value string) (Season, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return "", false
	}
	season, ok := seasonAliases[key]
	return season, ok
}

// Valid reports whether s is one of the canonical seasons.
func (s Season) Valid() bool {
	for _, season := range allSeasons {
		if s == season {
			return true
		}
	}
	return false
}

func (s Season) String() string {
	return string(s)
}
