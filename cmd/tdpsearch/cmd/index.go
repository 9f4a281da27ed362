package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emielsteerneman/tdpsearch/internal/indexer"
	"github.com/emielsteerneman/tdpsearch/internal/ui"
)

func newIndexCmd() *cobra.Command {
	var (
		run     string
		watch   bool
		noTUI   bool
		leagues string
		years   string
		teams   string
		lytis   string
	)

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build or update the search index from a corpus of Team Description Papers",
		Long: `index loads every paper JSON file under data_access.papers_root, chunks
and embeds it, and writes the resulting catalogue, IDF lexicon and vector
points to the configured metadata and vector stores.

With --watch, index keeps running and re-indexes the papers root whenever
new or changed papers settle, instead of exiting after one run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runIndex(ctx, cmd, run, watch, noTUI, leagues, years, teams, lytis)
		},
	}

	cmd.Flags().StringVar(&run, "run", "", "Run label to index under (overrides data_access.run)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep running, re-indexing on papers root changes (C18)")
	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "Disable the progress bar, use plain line output")
	cmd.Flags().StringVar(&leagues, "league", "", "Restrict indexing to these comma-separated leagues")
	cmd.Flags().StringVar(&years, "year", "", "Restrict indexing to these comma-separated years")
	cmd.Flags().StringVar(&teams, "team", "", "Restrict indexing to these comma-separated teams")
	cmd.Flags().StringVar(&lytis, "lyti", "", "Restrict indexing to these comma-separated paper ids")

	return cmd
}

func runIndex(ctx context.Context, cmd *cobra.Command, run string, watch, noTUI bool, leagues, years, teams, lytis string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if run != "" {
		cfg.DataAccess.Run = run
		cfg.Metadata.Run = run
		cfg.Vector.Run = run
		if cfg.Activity != nil {
			cfg.Activity.Run = run
		}
	}

	b, err := openBackends(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open backends: %w", err)
	}
	defer b.Close()

	f, err := filterFromFlags(leagues, years, teams, lytis)
	if err != nil {
		return err
	}

	uiCfg := ui.NewConfig(cmd.OutOrStdout(), ui.WithForcePlain(noTUI))
	renderer := ui.NewRenderer(uiCfg)

	indexCfg := indexer.DefaultConfig()
	indexCfg.PapersRoot = cfg.DataAccess.PapersRoot
	indexCfg.Run = cfg.Metadata.Run
	indexCfg.Filter = f
	indexCfg.LockDir = cfg.DataAccess.PapersRoot

	ix, err := indexer.New(indexCfg, indexer.Dependencies{
		Renderer: renderer,
		Metadata: b.Metadata,
		Vector:   b.Vector,
		Embedder: b.Embedder,
	})
	if err != nil {
		return fmt.Errorf("create indexer: %w", err)
	}

	if !watch {
		result, err := ix.Run(ctx)
		if err != nil {
			return fmt.Errorf("index: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "indexed %d papers, %d chunks, %d terms in %s\n",
			result.Papers, result.Chunks, result.Terms, result.Duration.Round(time.Millisecond))
		return nil
	}

	if _, err := ix.Run(ctx); err != nil {
		return fmt.Errorf("initial index: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "watching", cfg.DataAccess.PapersRoot, "for changes (ctrl-c to stop)")
	return ix.Watch(ctx, indexer.DefaultWatchConfig())
}
