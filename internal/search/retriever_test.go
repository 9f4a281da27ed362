package search

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/emielsteerneman/tdpsearch/internal/filter"
	"github.com/emielsteerneman/tdpsearch/internal/paper"
	"github.com/emielsteerneman/tdpsearch/internal/sparse"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

// fakeVectorStore is a minimal store.VectorStore test double recording the
// filter it was called with and returning a fixed set of hits.
type fakeVectorStore struct {
	hits     []store.SearchHit
	gotFiler store.VectorFilter
	err      error
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context, denseDim int) error { return nil }
func (f *fakeVectorStore) Upsert(ctx context.Context, points []store.VectorPoint) error {
	return nil
}
func (f *fakeVectorStore) DeleteRun(ctx context.Context, run string, paperIDs []string) error {
	return nil
}
func (f *fakeVectorStore) SearchHybrid(ctx context.Context, dense []float32, sparseVec sparse.Vector, limit int, vf store.VectorFilter) ([]store.SearchHit, error) {
	f.gotFiler = vf
	return f.hits, f.err
}
func (f *fakeVectorStore) Close() error { return nil }

func sampleHit() store.SearchHit {
	return store.SearchHit{
		ID:    uuid.New(),
		Score: 0.91,
		Payload: store.Payload{
			League:              "Soccer SmallSize",
			Year:                2019,
			Team:                "RoboTeam Twente",
			LYTI:                "soccer_smallsize__2019__RoboTeam_Twente__1",
			ParagraphSequenceID: 2,
			ChunkSequenceID:     0,
			IdxBegin:            10,
			IdxEnd:              120,
			Text:                "an omnidirectional drive chapter",
		},
	}
}

func TestRetrieveEmptyQueryFailsFast(t *testing.T) {
	r := NewRetriever(&fakeVectorStore{})
	_, err := r.Retrieve(context.Background(), nil, nil, 10, filter.Filter{})
	if err != ErrEmptyQuery {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestRetrieveDecodesPayload(t *testing.T) {
	vs := &fakeVectorStore{hits: []store.SearchHit{sampleHit()}}
	r := NewRetriever(vs)

	chunks, err := r.Retrieve(context.Background(), []float32{0.1, 0.2}, nil, 10, filter.Filter{})
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}

	got := chunks[0]
	if got.Chunk.PaperID.Team.NamePretty != "RoboTeam Twente" {
		t.Errorf("team = %q, want %q", got.Chunk.PaperID.Team.NamePretty, "RoboTeam Twente")
	}
	if got.Chunk.PaperID.Year != 2019 {
		t.Errorf("year = %d, want 2019", got.Chunk.PaperID.Year)
	}
	if got.Score != 0.91 {
		t.Errorf("score = %v, want 0.91", got.Score)
	}
}

func TestRetrieveMalformedLYTIFails(t *testing.T) {
	hit := sampleHit()
	hit.Payload.LYTI = "not-a-valid-lyti"
	vs := &fakeVectorStore{hits: []store.SearchHit{hit}}
	r := NewRetriever(vs)

	_, err := r.Retrieve(context.Background(), []float32{0.1}, nil, 10, filter.Filter{})
	if err == nil {
		t.Fatal("expected error decoding malformed lyti")
	}
}

func TestToVectorFilterTranslatesAllDimensions(t *testing.T) {
	var f filter.Filter
	f.AddLeague(paper.NewLeague("soccer", "smallsize", ""))
	f.AddYear(2021)
	f.AddTeam(paper.NewTeamNameFromPretty("RoboTeam Twente"))
	f.AddPaperID("soccer_smallsize__2019__RoboTeam_Twente__1")

	vf := toVectorFilter(f)
	if len(vf.Leagues) != 1 || len(vf.Years) != 1 || len(vf.Teams) != 1 || len(vf.PaperIDs) != 1 {
		t.Fatalf("VectorFilter = %+v, want one entry per dimension", vf)
	}
}
