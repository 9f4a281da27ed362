package search

import (
	"context"
	"testing"

	"github.com/emielsteerneman/tdpsearch/internal/embed"
	"github.com/emielsteerneman/tdpsearch/internal/idf"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

func lexiconFixture(t *testing.T) idf.Lexicon {
	t.Helper()
	texts := []string{
		"the robot uses an omnidirectional drive base",
		"our vision system detects the ball and goal",
	}
	lex, err := idf.Build(context.Background(), texts, idf.DefaultMinCounts)
	if err != nil {
		t.Fatalf("idf.Build: %v", err)
	}
	return lex
}

func TestSearchEmptyQueryShortCircuits(t *testing.T) {
	f := NewFacade(embed.NewStaticEmbedder768(), lexiconFixture(t), NewRetriever(&fakeVectorStore{}), nil, nil)

	result, err := f.Search(context.Background(), Request{Query: "   "})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Chunks) != 0 {
		t.Fatalf("len(Chunks) = %d, want 0 for empty query", len(result.Chunks))
	}
	if result.Suggestions.Teams != nil || result.Suggestions.Leagues != nil {
		t.Fatalf("Suggestions = %+v, want zero value for empty query", result.Suggestions)
	}
}

func TestSearchHybridQueriesBothModalities(t *testing.T) {
	vs := &fakeVectorStore{hits: []store.SearchHit{sampleHit()}}
	f := NewFacade(embed.NewStaticEmbedder768(), lexiconFixture(t), NewRetriever(vs), nil, nil)

	result, err := f.Search(context.Background(), Request{Query: "omnidirectional drive"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(result.Chunks) != 1 {
		t.Fatalf("len(Chunks) = %d, want 1", len(result.Chunks))
	}
}

func TestSearchSparseModeSkipsEmbedder(t *testing.T) {
	vs := &fakeVectorStore{hits: []store.SearchHit{sampleHit()}}
	f := NewFacade(embed.NewStaticEmbedder768(), lexiconFixture(t), NewRetriever(vs), nil, nil)

	_, err := f.Search(context.Background(), Request{Query: "omnidirectional drive", Mode: ModeSparse})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestSearchDefaultsLimitWhenUnset(t *testing.T) {
	vs := &fakeVectorStore{hits: []store.SearchHit{sampleHit()}}
	f := NewFacade(embed.NewStaticEmbedder768(), lexiconFixture(t), NewRetriever(vs), nil, nil)

	_, err := f.Search(context.Background(), Request{Query: "vision system"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
}

func TestSearchSuggestsFuzzyMatchedTeamsAndLeagues(t *testing.T) {
	vs := &fakeVectorStore{}
	teams := []string{"RoboTeam Twente"}
	leagues := []string{"Soccer SmallSize"}
	f := NewFacade(embed.NewStaticEmbedder768(), lexiconFixture(t), NewRetriever(vs), teams, leagues)

	result, err := f.Search(context.Background(), Request{Query: "RoboTeam Twente"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	found := false
	for _, s := range result.Suggestions.Teams {
		if s == "RoboTeam Twente" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggestions.Teams = %v, want to contain %q", result.Suggestions.Teams, "RoboTeam Twente")
	}
}
