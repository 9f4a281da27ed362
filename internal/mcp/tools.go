package mcp

import (
	"github.com/emielsteerneman/tdpsearch/internal/search"
)

// SearchInput is the MCP search tool's input schema, per spec.md §6's
// HTTP query parameters (league/year/team/lyti filters, limit, mode).
type SearchInput struct {
	Query         string `json:"query" jsonschema:"the search query to run against the TDP corpus"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 15"`
	Mode          string `json:"mode,omitempty" jsonschema:"dense, sparse, or hybrid (default hybrid)"`
	LeagueFilter  string `json:"league_filter,omitempty" jsonschema:"comma-separated league names, e.g. 'Soccer Smallsize'"`
	YearFilter    string `json:"year_filter,omitempty" jsonschema:"comma-separated years, e.g. '2019,2021'"`
	TeamFilter    string `json:"team_filter,omitempty" jsonschema:"comma-separated team names"`
	LYTIFilter    string `json:"lyti_filter,omitempty" jsonschema:"comma-separated canonical paper ids"`
}

// SearchResultOutput is one scored chunk, formatted for an MCP client.
type SearchResultOutput struct {
	League              string  `json:"league"`
	Year                uint32  `json:"year"`
	Team                string  `json:"team"`
	PaperID             string  `json:"paper_id"`
	ParagraphSequenceID int     `json:"paragraph_sequence_id"`
	ChunkSequenceID     int     `json:"chunk_sequence_id"`
	Text                string  `json:"text"`
	Score               float64 `json:"score"`
}

// SuggestionsOutput mirrors search.Suggestions.
type SuggestionsOutput struct {
	Teams   []string `json:"teams"`
	Leagues []string `json:"leagues"`
}

// SearchOutput is the MCP search tool's output schema.
type SearchOutput struct {
	Query       string                `json:"query"`
	Results     []SearchResultOutput  `json:"results"`
	Suggestions SuggestionsOutput     `json:"suggestions"`
}

// toSearchOutput formats a search.Result for the wire.
func toSearchOutput(result search.Result) SearchOutput {
	out := SearchOutput{
		Query:   result.Query,
		Results: make([]SearchResultOutput, len(result.Chunks)),
		Suggestions: SuggestionsOutput{
			Teams:   result.Suggestions.Teams,
			Leagues: result.Suggestions.Leagues,
		},
	}
	for i, sc := range result.Chunks {
		out.Results[i] = SearchResultOutput{
			League:              sc.Chunk.PaperID.League.NamePretty,
			Year:                sc.Chunk.PaperID.Year,
			Team:                sc.Chunk.PaperID.Team.NamePretty,
			PaperID:             sc.Chunk.PaperID.Filename(),
			ParagraphSequenceID: sc.Chunk.ParagraphSequenceID,
			ChunkSequenceID:     sc.Chunk.ChunkSequenceID,
			Text:                sc.Chunk.Text,
			Score:               sc.Score,
		}
	}
	return out
}
