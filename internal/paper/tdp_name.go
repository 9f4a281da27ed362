package paper

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// PDFExt is the source-document extension a TDPName's filename carries.
	PDFExt = ".pdf"
	// HTMLExt is the rendered-document extension a TDPName's filename carries.
	HTMLExt = ".html"
)

// TDPName is a paper's canonical identifier: the league and team it
// belongs to, the year it was published, and its index among papers
// sharing that (league, year, team) triple.
type TDPName struct {
	League League
	Team   TeamName
	Year   uint32
	Index  uint32
}

// NewTDPName constructs a TDPName.
func NewTDPName(league League, year uint32, team TeamName, index uint32) TDPName {
	return TDPName{League: league, Team: team, Year: year, Index: index}
}

// Filename returns the canonical "{league}__{year}__{team}__{index}" string
// all downstream identity (chunk ids, vector-index payload lyti) derives
// from.
func (t TDPName) Filename() string {
	return fmt.Sprintf("%s__%d__%s__%d", t.League.Name, t.Year, t.Team.Name, t.Index)
}

// ErrTDPNameBadFieldCount is returned when a TDP name string doesn't split
// into exactly 4 '__'-separated fields.
type ErrTDPNameBadFieldCount struct{ Count int }

func (e ErrTDPNameBadFieldCount) Error() string {
	return fmt.Sprintf("tdp name: expected 4 fields separated by '__', got %d", e.Count)
}

// ErrTDPNameField is returned when a field of a TDP name string can't be
// parsed as its expected type.
type ErrTDPNameField struct {
	Field string
	Value string
}

func (e ErrTDPNameField) Error() string {
	return fmt.Sprintf("tdp name: invalid %s: %q", e.Field, e.Value)
}

// ParseTDPName parses a canonical TDP name string, stripping a trailing
// ".pdf"/".html" (or any other single extension) before splitting on "__".
func ParseTDPName(value string) (TDPName, error) {
	base := value
	if i := strings.LastIndex(value, "."); i >= 0 {
		base = value[:i]
	}

	parts := strings.Split(base, "__")
	if len(parts) != 4 {
		return TDPName{}, ErrTDPNameBadFieldCount{Count: len(parts)}
	}

	league, err := ParseLeague(parts[0])
	if err != nil {
		return TDPName{}, err
	}

	year, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil {
		return TDPName{}, ErrTDPNameField{Field: "year", Value: parts[1]}
	}

	team := NewTeamName(parts[2])

	index, err := strconv.ParseUint(parts[3], 10, 32)
	if err != nil {
		return TDPName{}, ErrTDPNameField{Field: "index", Value: parts[3]}
	}

	return NewTDPName(league, uint32(year), team, uint32(index)), nil
}
