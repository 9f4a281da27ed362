package paper

import "strings"

// TeamName pairs a team's canonical underscore form with its pretty,
// space-separated display form.
type TeamName struct {
	Name       string
	NamePretty string
}

// NewTeamName builds a TeamName from its canonical underscore-joined form.
func NewTeamName(name string) TeamName {
	return TeamName{Name: name, NamePretty: strings.ReplaceAll(name, "_", " ")}
}

// NewTeamNameFromPretty builds a TeamName from its space-separated display
// form.
func NewTeamNameFromPretty(namePretty string) TeamName {
	return TeamName{Name: strings.ReplaceAll(namePretty, " ", "_"), NamePretty: namePretty}
}
