package mcp

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/emielsteerneman/tdpsearch/internal/embed"
	"github.com/emielsteerneman/tdpsearch/internal/idf"
	"github.com/emielsteerneman/tdpsearch/internal/search"
	"github.com/emielsteerneman/tdpsearch/internal/sparse"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

type fakeVectorStore struct {
	hits []store.SearchHit
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context, denseDim int) error { return nil }
func (f *fakeVectorStore) Upsert(ctx context.Context, points []store.VectorPoint) error {
	return nil
}
func (f *fakeVectorStore) DeleteRun(ctx context.Context, run string, paperIDs []string) error {
	return nil
}
func (f *fakeVectorStore) SearchHybrid(ctx context.Context, dense []float32, sparseVec sparse.Vector, limit int, vf store.VectorFilter) ([]store.SearchHit, error) {
	return f.hits, nil
}
func (f *fakeVectorStore) Close() error { return nil }

func testFacade(t *testing.T, hits []store.SearchHit) *search.Facade {
	t.Helper()
	lex, err := idf.Build(context.Background(), []string{"omnidirectional drive base"}, idf.DefaultMinCounts)
	if err != nil {
		t.Fatalf("idf.Build: %v", err)
	}
	retriever := search.NewRetriever(&fakeVectorStore{hits: hits})
	return search.NewFacade(embed.NewStaticEmbedder768(), lex, retriever, nil, nil)
}

func sampleHit() store.SearchHit {
	return store.SearchHit{
		ID:    uuid.New(),
		Score: 0.8,
		Payload: store.Payload{
			League:   "Soccer Smallsize",
			Year:     2019,
			Team:     "RoboTeam Twente",
			LYTI:     "soccer_smallsize__2019__RoboTeam_Twente__1",
			Text:     "an omnidirectional drive base",
		},
	}
}

func TestHandleSearchRejectsEmptyQuery(t *testing.T) {
	srv, err := NewServer(testFacade(t, nil), "test", nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	_, _, err = srv.handleSearch(context.Background(), nil, SearchInput{Query: "  "})
	if err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestHandleSearchReturnsResults(t *testing.T) {
	srv, err := NewServer(testFacade(t, []store.SearchHit{sampleHit()}), "test", nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	_, out, err := srv.handleSearch(context.Background(), nil, SearchInput{Query: "drive base"})
	if err != nil {
		t.Fatalf("handleSearch: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("len(Results) = %d, want 1", len(out.Results))
	}
	if out.Results[0].PaperID != "soccer_smallsize__2019__RoboTeam_Twente__1" {
		t.Errorf("PaperID = %q, unexpected", out.Results[0].PaperID)
	}
}

func TestHandleSearchRejectsInvalidFilter(t *testing.T) {
	srv, err := NewServer(testFacade(t, nil), "test", nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	_, _, err = srv.handleSearch(context.Background(), nil, SearchInput{Query: "drive", YearFilter: "not-a-year"})
	if err == nil {
		t.Fatal("expected error for invalid year filter")
	}
}
