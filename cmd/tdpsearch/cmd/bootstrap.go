package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emielsteerneman/tdpsearch/internal/config"
	"github.com/emielsteerneman/tdpsearch/internal/embed"
	"github.com/emielsteerneman/tdpsearch/internal/idf"
	"github.com/emielsteerneman/tdpsearch/internal/paper"
	"github.com/emielsteerneman/tdpsearch/internal/search"
	"github.com/emielsteerneman/tdpsearch/internal/store"
	"github.com/emielsteerneman/tdpsearch/internal/store/activity"
	"github.com/emielsteerneman/tdpsearch/internal/store/metadata"
	"github.com/emielsteerneman/tdpsearch/internal/store/vector"
)

// backends bundles every store/embedder collaborator a command needs,
// plus the closers the caller must run down on exit.
type backends struct {
	Metadata *metadata.Store
	Vector   *vector.Store
	Activity store.ActivityStore // nil when the config has no [activity] section
	Embedder embed.Embedder
}

// Close shuts down every opened backend, in reverse construction order.
func (b *backends) Close() {
	if b.Embedder != nil {
		b.Embedder.Close()
	}
	if b.Activity != nil {
		b.Activity.Close()
	}
	if b.Vector != nil {
		b.Vector.Close()
	}
	if b.Metadata != nil {
		b.Metadata.Close()
	}
}

// openBackends dials every backend named by the already-loaded cfg.
func openBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	meta, err := metadata.Open(cfg.Metadata.Path)
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}

	vec, err := vector.Dial(vector.Config{
		Host:   cfg.Vector.Host,
		Port:   cfg.Vector.Port,
		APIKey: cfg.Vector.APIKey,
	})
	if err != nil {
		meta.Close()
		return nil, fmt.Errorf("dial vector store: %w", err)
	}

	var act store.ActivityStore
	if cfg.Activity != nil {
		a, err := activity.Open(cfg.Activity.Path)
		if err != nil {
			vec.Close()
			meta.Close()
			return nil, fmt.Errorf("open activity store: %w", err)
		}
		act = a
	}

	embedder, err := embed.NewEmbedder(ctx, embed.ParseProvider(cfg.Embedding.Provider), cfg.Embedding.Model)
	if err != nil {
		if act != nil {
			act.Close()
		}
		vec.Close()
		meta.Close()
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &backends{Metadata: meta, Vector: vec, Activity: act, Embedder: embedder}, nil
}

// loadConfig reads and validates the config file at path.
func loadConfig(path string) (*config.Config, error) {
	return config.Load(path)
}

// buildFacade assembles a search.Facade from cfg and b: it loads the run's
// persisted IDF lexicon and paper catalogue (for fuzzy suggestion pools).
func buildFacade(ctx context.Context, cfg *config.Config, b *backends) (*search.Facade, error) {
	terms, err := b.Metadata.LoadIDF(ctx, cfg.Metadata.Run)
	if err != nil {
		return nil, fmt.Errorf("load IDF lexicon: %w", err)
	}
	lexicon := make(idf.Lexicon, len(terms))
	for _, t := range terms {
		lexicon[t.Word] = idf.Term{ID: t.ID, WeightedIDF: t.WeightedIDF}
	}

	papers, err := b.Metadata.ListPapers(ctx, cfg.Metadata.Run, "", "", nil)
	if err != nil {
		return nil, fmt.Errorf("load paper catalogue: %w", err)
	}
	teams, leagues := distinctTeamsAndLeagues(papers)

	retriever := search.NewRetriever(b.Vector)
	return search.NewFacade(b.Embedder, lexicon, retriever, teams, leagues), nil
}

// logCLIActivity best-effort logs a search event, per spec.md §7's rule
// that activity-logging failures are always swallowed at the warn level.
func logCLIActivity(ctx context.Context, b *backends, query string) {
	event := store.ActivityEvent{Source: "cli", Action: "search", Detail: map[string]string{"query": query}}
	if err := b.Activity.Log(ctx, event); err != nil {
		slog.Warn("cli: activity log failed", "error", err)
	}
}

// distinctTeamsAndLeagues returns the deduplicated, pretty-printed team and
// league names across papers, as fuzzy.Suggest's candidate pools.
func distinctTeamsAndLeagues(papers []paper.TDPName) (teams, leagues []string) {
	seenTeams := make(map[string]bool)
	seenLeagues := make(map[string]bool)
	for _, p := range papers {
		if t := p.Team.NamePretty; !seenTeams[t] {
			seenTeams[t] = true
			teams = append(teams, t)
		}
		if l := p.League.NamePretty; !seenLeagues[l] {
			seenLeagues[l] = true
			leagues = append(leagues, l)
		}
	}
	return teams, leagues
}
