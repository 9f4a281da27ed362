package paper

import "encoding/json"

// Text is a raw/processed string pair. Only Raw drives chunk boundaries;
// Processed is carried through for callers that want a normalised form
// alongside it, mirrored from the original paper JSON schema even though
// paragraph titles never participate in chunking.
type Text struct {
	Raw       string `json:"raw"`
	Processed string `json:"processed"`
}

// Paragraph is one ordered unit of a paper's body: a title plus its
// ordered sentences.
type Paragraph struct {
	Title     Text   `json:"title"`
	Sentences []Text `json:"sentences"`
}

// Structure is the body of a paper document: its ordered paragraphs.
type Structure struct {
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Document is one fully decoded paper JSON file: its canonical identity
// plus its paragraph structure.
type Document struct {
	ID        TDPName
	Structure Structure
}

type leagueJSON struct {
	Major string `json:"major"`
	Minor string `json:"minor"`
	Sub   string `json:"sub"`
}

type teamJSON struct {
	Name       string `json:"name"`
	NamePretty string `json:"name_pretty"`
}

type nameJSON struct {
	League leagueJSON `json:"league"`
	Year   uint32     `json:"year"`
	Team   teamJSON   `json:"team"`
	Index  uint32     `json:"index"`
}

type documentJSON struct {
	Name      nameJSON  `json:"name"`
	Structure Structure `json:"structure"`
}

// ParseDocument decodes one paper JSON document per spec.md §6's schema:
// { name: {league:{major,minor,sub?}, year, team:{name,name_pretty}, index},
//   structure: { paragraphs: [{title, sentences}, ...] } }.
func ParseDocument(data []byte) (Document, error) {
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, err
	}

	league := NewLeague(raw.Name.League.Major, raw.Name.League.Minor, raw.Name.League.Sub)
	team := TeamName{Name: raw.Name.Team.Name, NamePretty: raw.Name.Team.NamePretty}
	if team.Name == "" && team.NamePretty != "" {
		team = NewTeamNameFromPretty(raw.Name.Team.NamePretty)
	}
	if team.NamePretty == "" && team.Name != "" {
		team = NewTeamName(raw.Name.Team.Name)
	}

	return Document{
		ID:        NewTDPName(league, raw.Name.Year, team, raw.Name.Index),
		Structure: raw.Structure,
	}, nil
}
