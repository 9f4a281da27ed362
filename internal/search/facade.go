package search

import (
	"context"
	"strings"

	"github.com/emielsteerneman/tdpsearch/internal/embed"
	"github.com/emielsteerneman/tdpsearch/internal/filter"
	"github.com/emielsteerneman/tdpsearch/internal/fuzzy"
	"github.com/emielsteerneman/tdpsearch/internal/idf"
	"github.com/emielsteerneman/tdpsearch/internal/sparse"
)

// Facade is the top-level search entry point (C11): it composes filter
// translation, dense/sparse query embedding, retrieval (C7) and fuzzy
// suggestion (C8) under one request/response contract.
type Facade struct {
	embedder    embed.Embedder
	lexicon     idf.Lexicon
	retriever   *Retriever
	teams       []string
	leagues     []string
	defaultSize int
}

// NewFacade creates a Facade. lexicon is the run's immutable, shared IDF
// lexicon (spec.md §9's "Ownership" note); teams/leagues are the fuzzy
// suggester's candidate pools, typically the run's paper catalogue.
func NewFacade(embedder embed.Embedder, lexicon idf.Lexicon, retriever *Retriever, teams, leagues []string) *Facade {
	return &Facade{
		embedder:    embedder,
		lexicon:     lexicon,
		retriever:   retriever,
		teams:       teams,
		leagues:     leagues,
		defaultSize: 15,
	}
}

// Search executes req and returns the combined result. An empty/whitespace
// query short-circuits to an empty result with no backend calls, per
// spec.md §4.9.
func (f *Facade) Search(ctx context.Context, req Request) (Result, error) {
	result := Result{Query: req.Query, Filter: req.Filter}

	if strings.TrimSpace(req.Query) == "" {
		return result, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = f.defaultSize
	}
	mode := req.Mode
	if mode == "" {
		mode = ModeHybrid
	}

	var dense []float32
	if mode == ModeDense || mode == ModeHybrid {
		var err error
		dense, err = f.embedder.Embed(ctx, req.Query)
		if err != nil {
			return Result{}, err
		}
	}

	var sparseVec sparse.Vector
	if mode == ModeSparse || mode == ModeHybrid {
		sparseVec = sparse.Embed(req.Query, f.lexicon)
	}

	chunks, err := f.retriever.Retrieve(ctx, dense, sparseVec, limit, req.Filter)
	if err != nil {
		return Result{}, err
	}
	result.Chunks = chunks

	result.Suggestions = Suggestions{
		Teams:   fuzzy.Suggest(f.teams, req.Query),
		Leagues: fuzzy.Suggest(f.leagues, req.Query),
	}

	return result, nil
}
