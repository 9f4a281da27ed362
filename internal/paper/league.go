// Package paper implements the canonical identity types for a Team
// Description Paper: its league, team name and composite identifier.
package paper

import (
	"fmt"
	"strings"
)

// League is a competition league, identified by a 2- or 3-part
// underscore-joined name (e.g. "soccer_smallsize", "industrial_logistics").
type League struct {
	Major      string
	Minor      string
	Sub        string // empty when the league has no sub-part
	Name       string // canonical "major_minor[_sub]" form
	NamePretty string
}

// leaguePrettyReplacements fixes up capitalize-each-word output for the
// leagues whose canonical pretty form isn't plain title case.
var leaguePrettyReplacements = []struct{ from, to string }{
	{"Smallsize", "SmallSize"},
	{"Midsize", "MidSize"},
	{"Standardplatform", "StandardPlatform"},
	{"Atwork", "@Work"},
	{"Athome", "@Home"},
	{"2d", "2D"},
	{"3d", "3D"},
}

// NewLeague constructs a League from its parts, deriving Name and
// NamePretty. sub may be empty.
func NewLeague(major, minor, sub string) League {
	name := major + "_" + minor
	if sub != "" {
		name = name + "_" + sub
	}
	return League{
		Major:      major,
		Minor:      minor,
		Sub:        sub,
		Name:       name,
		NamePretty: namePretty(name),
	}
}

// ErrLeagueBadFieldCount is returned when a league string doesn't split
// into exactly 2 or 3 '_'-separated fields.
type ErrLeagueBadFieldCount struct{ Count int }

func (e ErrLeagueBadFieldCount) Error() string {
	return fmt.Sprintf("league: expected 2 or 3 fields separated by '_', got %d", e.Count)
}

// ParseLeague parses a league's canonical underscore-joined name.
func ParseLeague(value string) (League, error) {
	parts := strings.Split(value, "_")
	switch len(parts) {
	case 2:
		return NewLeague(parts[0], parts[1], ""), nil
	case 3:
		return NewLeague(parts[0], parts[1], parts[2]), nil
	default:
		return League{}, ErrLeagueBadFieldCount{Count: len(parts)}
	}
}

func namePretty(name string) string {
	pretty := capitalizeWords(strings.ReplaceAll(name, "_", " "))
	for _, r := range leaguePrettyReplacements {
		pretty = strings.ReplaceAll(pretty, r.from, r.to)
	}
	return pretty
}

func capitalizeWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
