package cmd

import (
	"fmt"

	"github.com/emielsteerneman/tdpsearch/internal/filter"
)

// filterFromFlags translates comma-separated CLI flag values into a
// filter.Filter, reusing the same filter.Args/FromArgs glue the HTTP and
// MCP front doors use.
func filterFromFlags(leagues, years, teams, lytis string) (filter.Filter, error) {
	f, err := filter.FromArgs(filter.Args{
		LeagueFilter: leagues,
		YearFilter:   years,
		TeamFilter:   teams,
		LYTIFilter:   lytis,
	})
	if err != nil {
		return filter.Filter{}, fmt.Errorf("invalid filter: %w", err)
	}
	return f, nil
}
