package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emielsteerneman/tdpsearch/internal/search"
)

func newSearchCmd() *cobra.Command {
	var (
		limit   int
		mode    string
		leagues string
		years   string
		teams   string
		lytis   string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the indexed corpus of Team Description Papers",
		Long: `search issues a hybrid (IDF-weighted n-gram + semantic) query against the configured
vector and metadata stores, optionally narrowed by league, year, team or
paper id.

Examples:
  tdpsearch search "omnidirectional drive"
  tdpsearch search "ball detection" --league "Soccer Smallsize" --year 2019,2021
  tdpsearch search "kalman filter" --mode sparse --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, limit, mode, leagues, years, teams, lytis, asJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of results (defaults to the facade's default)")
	cmd.Flags().StringVar(&mode, "mode", "hybrid", "Search mode: hybrid, dense, or sparse")
	cmd.Flags().StringVar(&leagues, "league", "", "Restrict to these comma-separated leagues")
	cmd.Flags().StringVar(&years, "year", "", "Restrict to these comma-separated years")
	cmd.Flags().StringVar(&teams, "team", "", "Restrict to these comma-separated teams")
	cmd.Flags().StringVar(&lytis, "lyti", "", "Restrict to these comma-separated paper ids")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output results as JSON")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, limit int, mode, leagues, years, teams, lytis string, asJSON bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open backends: %w", err)
	}
	defer b.Close()

	facade, err := buildFacade(ctx, cfg, b)
	if err != nil {
		return fmt.Errorf("build search facade: %w", err)
	}

	f, err := filterFromFlags(leagues, years, teams, lytis)
	if err != nil {
		return err
	}

	result, err := facade.Search(ctx, search.Request{
		Query:  query,
		Limit:  limit,
		Mode:   search.Mode(mode),
		Filter: f,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if b.Activity != nil {
		logCLIActivity(ctx, b, query)
	}

	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return printSearchResult(cmd, result)
}

func printSearchResult(cmd *cobra.Command, result search.Result) error {
	out := cmd.OutOrStdout()
	if len(result.Chunks) == 0 {
		fmt.Fprintln(out, "no results")
	}
	for i, sc := range result.Chunks {
		fmt.Fprintf(out, "%d. [%.3f] %s — %s (%d) — %s\n",
			i+1, sc.Score, sc.Chunk.PaperID.Team.NamePretty, sc.Chunk.PaperID.League.NamePretty,
			sc.Chunk.PaperID.Year, sc.Chunk.PaperID.Filename())
		fmt.Fprintf(out, "   %s\n", sc.Chunk.Text)
	}
	if len(result.Suggestions.Teams) > 0 {
		fmt.Fprintln(out, "did you mean teams:", strings.Join(result.Suggestions.Teams, ", "))
	}
	if len(result.Suggestions.Leagues) > 0 {
		fmt.Fprintln(out, "did you mean leagues:", strings.Join(result.Suggestions.Leagues, ", "))
	}
	return nil
}
