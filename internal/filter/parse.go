package filter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/emielsteerneman/tdpsearch/internal/paper"
)

// Args is the raw, comma-separated filter input as it arrives from an
// HTTP query string or MCP tool call.
type Args struct {
	LeagueFilter string
	YearFilter   string
	TeamFilter   string
	LYTIFilter   string // "league__year__team__index" paper ids
}

// FromArgs parses Args into a Filter. Each field is optional; an empty
// string contributes no constraint. League tokens are accepted in their
// pretty, space-separated form (e.g. "Soccer Smallsize") and canonicalised
// through paper.ParseLeague; team tokens are taken as already-pretty team
// names.
func FromArgs(a Args) (Filter, error) {
	var f Filter

	for _, tok := range splitNonEmpty(a.LeagueFilter) {
		league, err := paper.ParseLeague(leagueToken(tok))
		if err != nil {
			return Filter{}, fmt.Errorf("league filter %q: %w", tok, err)
		}
		f.AddLeague(league)
	}

	for _, tok := range splitNonEmpty(a.YearFilter) {
		year, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return Filter{}, fmt.Errorf("year filter %q: %w", tok, err)
		}
		f.AddYear(uint32(year))
	}

	for _, tok := range splitNonEmpty(a.TeamFilter) {
		f.AddTeam(paper.NewTeamNameFromPretty(tok))
	}

	for _, tok := range splitNonEmpty(a.LYTIFilter) {
		f.AddPaperID(tok)
	}

	return f, nil
}

// leagueToken canonicalises a pretty, space-separated league token (e.g.
// "Soccer Smallsize") into the underscore-joined form paper.ParseLeague
// expects ("soccer_smallsize").
func leagueToken(tok string) string {
	return strings.ReplaceAll(strings.ToLower(tok), " ", "_")
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
