// Package stage defines the shared vocabulary for application progress:
// the pipeline stages an application moves through and the recruiting
// seasons it can target. Parsing is deliberately forgiving because values
// arrive from CLI arguments typed by hand.
package stage

import "strings"

// Stage identifies a step in the application pipeline.
type Stage string

const (
	Applied Stage = "Applied"
	OA      Stage = "OA"
	Phone   Stage = "Phone"
	Onsite  Stage = "On-site"
	Offer   Stage = "Offer"
	Rejected Stage = "Rejected"
)

var allStages = []Stage{Applied, OA, Phone, Onsite, Offer, Rejected}

// terminalStages are excluded from staleness checks. An application that
// reached an offer or a rejection no longer needs a follow-up nudge, but
// stages can still be recorded against it.
var terminalStages = []Stage{Offer, Rejected}

var stageAliases = map[string]Stage{
	"applied":           Applied,
	"apply":             Applied,
	"oa":                OA,
	"online assessment": OA,
	"assessment":        OA,
	"phone":             Phone,
	"phone screen":      Phone,
	"screen":            Phone,
	"on-site":           Onsite,
	"onsite":            Onsite,
	"on site":           Onsite,
	"final":             Onsite,
	"offer":             Offer,
	"rejected":          Rejected,
	"reject":            Rejected,
	"rejection":         Rejected,
}

// All returns every stage in pipeline order.
func All() []Stage {
	out := make([]Stage, len(allStages))
	copy(out, allStages)
	return out
}

// Terminal returns the stages that stop staleness tracking.
func Terminal() []Stage {
	out := make([]Stage, len(terminalStages))
	copy(out, terminalStages)
	return out
}

// Parse maps free-form user input onto a canonical stage. Matching ignores
// case and surrounding whitespace and accepts common spellings such as
// "onsite" or "on site".
func Parse(value string) (Stage, bool) {
	key := strings.ToLower(strings.TrimSpace(value))
	if key == "" {
		return "", false
	}
	stage, ok := stageAliases[key]
	return stage, ok
}

// IsTerminal reports whether s halts staleness tracking.
func (s Stage) IsTerminal() bool {
	for _, terminal := range terminalStages {
		if s == terminal {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the canonical stages.
func (s Stage) Valid() bool {
	for _, stage := range allStages {
		if s == stage {
			return true
		}
	}
	return false
}

func (s Stage) String() string {
	return string(s)
}
