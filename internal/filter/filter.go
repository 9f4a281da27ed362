// Package filter implements the typed, multi-valued predicate applied to
// search results: conjunctive across dimensions, disjunctive within each
// dimension's set.
package filter

import "github.com/emielsteerneman/tdpsearch/internal/paper"

// Filter holds four optional sets. A nil/empty set imposes no constraint
// on its dimension; a non-empty set requires membership.
type Filter struct {
	Teams    map[string]struct{} // pretty team names
	Leagues  map[string]struct{} // pretty league names
	Years    map[uint32]struct{}
	PaperIDs map[string]struct{} // canonical "league__year__team__index" strings
}

// Candidate is the minimal set of attributes a Filter can be matched
// against, satisfied by both a chunk's denormalised payload and a paper's
// identity.
type Candidate struct {
	TeamPretty   string
	LeaguePretty string
	Year         uint32
	PaperID      string
}

// AddTeam records a team (by its pretty form) as an accepted value.
func (f *Filter) AddTeam(team paper.TeamName) {
	if f.Teams == nil {
		f.Teams = make(map[string]struct{})
	}
	f.Teams[team.NamePretty] = struct{}{}
}

// AddLeague records a league (by its pretty form) as an accepted value.
func (f *Filter) AddLeague(league paper.League) {
	if f.Leagues == nil {
		f.Leagues = make(map[string]struct{})
	}
	f.Leagues[league.NamePretty] = struct{}{}
}

// AddYear records a year as an accepted value.
func (f *Filter) AddYear(year uint32) {
	if f.Years == nil {
		f.Years = make(map[uint32]struct{})
	}
	f.Years[year] = struct{}{}
}

// AddPaperID records a canonical paper identifier as an accepted value.
func (f *Filter) AddPaperID(id string) {
	if f.PaperIDs == nil {
		f.PaperIDs = make(map[string]struct{})
	}
	f.PaperIDs[id] = struct{}{}
}

// AddTDPName records a TDPName's canonical filename as an accepted
// paper-id value.
func (f *Filter) AddTDPName(name paper.TDPName) {
	f.AddPaperID(name.Filename())
}

// Matches reports whether c satisfies every non-empty dimension of f.
func (f *Filter) Matches(c Candidate) bool {
	if len(f.Teams) > 0 {
		if _, ok := f.Teams[c.TeamPretty]; !ok {
			return false
		}
	}
	if len(f.Leagues) > 0 {
		if _, ok := f.Leagues[c.LeaguePretty]; !ok {
			return false
		}
	}
	if len(f.Years) > 0 {
		if _, ok := f.Years[c.Year]; !ok {
			return false
		}
	}
	if len(f.PaperIDs) > 0 {
		if _, ok := f.PaperIDs[c.PaperID]; !ok {
			return false
		}
	}
	return true
}

// IsEmpty reports whether f constrains no dimension at all.
func (f *Filter) IsEmpty() bool {
	return len(f.Teams) == 0 && len(f.Leagues) == 0 && len(f.Years) == 0 && len(f.PaperIDs) == 0
}
