// Package search assembles the retriever (C7) and top-level search facade
// (C11): filter translation, dense/sparse subquery dispatch, fused
// retrieval, and fuzzy team/league suggestions.
package search

import (
	"github.com/emielsteerneman/tdpsearch/internal/filter"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

// Mode selects which subqueries a search issues.
type Mode string

const (
	ModeDense  Mode = "dense"
	ModeSparse Mode = "sparse"
	ModeHybrid Mode = "hybrid"
)

// Request is the top-level search facade's input.
type Request struct {
	Query  string
	Limit  int
	Mode   Mode
	Filter filter.Filter
}

// Suggestions groups fuzzy-matched team/league names detected in a query.
type Suggestions struct {
	Teams   []string
	Leagues []string
}

// Result is the top-level search facade's output.
type Result struct {
	Query       string
	Filter      filter.Filter
	Chunks      []store.ScoredChunk
	Suggestions Suggestions
}
