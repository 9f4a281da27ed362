package indexer

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/emielsteerneman/tdpsearch/internal/embed"
	"github.com/emielsteerneman/tdpsearch/internal/paper"
	"github.com/emielsteerneman/tdpsearch/internal/sparse"
	"github.com/emielsteerneman/tdpsearch/internal/store"
	"github.com/emielsteerneman/tdpsearch/internal/ui"
)

// fakeMetadataStore is an in-memory store.MetadataStore test double.
type fakeMetadataStore struct {
	papers map[string][]paper.TDPName
	terms  map[string][]store.Term
}

func newFakeMetadataStore() *fakeMetadataStore {
	return &fakeMetadataStore{papers: map[string][]paper.TDPName{}, terms: map[string][]store.Term{}}
}

func (m *fakeMetadataStore) ReplaceIDF(ctx context.Context, run string, terms []store.Term) error {
	m.terms[run] = terms
	return nil
}
func (m *fakeMetadataStore) LoadIDF(ctx context.Context, run string) ([]store.Term, error) {
	return m.terms[run], nil
}
func (m *fakeMetadataStore) ReplacePapers(ctx context.Context, run string, papers []paper.TDPName) error {
	m.papers[run] = papers
	return nil
}
func (m *fakeMetadataStore) ListPapers(ctx context.Context, run, league, team string, year *uint32) ([]paper.TDPName, error) {
	return m.papers[run], nil
}
func (m *fakeMetadataStore) Close() error { return nil }

// fakeVectorStore is an in-memory store.VectorStore test double recording
// every upserted point.
type fakeVectorStore struct {
	ensuredDim int
	points     []store.VectorPoint
}

func (v *fakeVectorStore) EnsureCollection(ctx context.Context, denseDim int) error {
	v.ensuredDim = denseDim
	return nil
}
func (v *fakeVectorStore) Upsert(ctx context.Context, points []store.VectorPoint) error {
	v.points = append(v.points, points...)
	return nil
}
func (v *fakeVectorStore) DeleteRun(ctx context.Context, run string, paperIDs []string) error {
	return nil
}
func (v *fakeVectorStore) SearchHybrid(ctx context.Context, dense []float32, sparseVec sparse.Vector, limit int, vf store.VectorFilter) ([]store.SearchHit, error) {
	return nil, nil
}
func (v *fakeVectorStore) Close() error { return nil }

func writePaperFixture(t *testing.T, dir, filename string, year uint32, team string) {
	t.Helper()
	doc := map[string]any{
		"name": map[string]any{
			"league": map[string]any{"major": "soccer", "minor": "smallsize"},
			"year":   year,
			"team":   map[string]any{"name": team, "name_pretty": team},
			"index":  1,
		},
		"structure": map[string]any{
			"paragraphs": []map[string]any{
				{
					"title": map[string]any{"raw": "Introduction", "processed": "introduction"},
					"sentences": []map[string]any{
						{"raw": "Our robot uses an omnidirectional drive base.", "processed": "our robot uses an omnidirectional drive base"},
						{"raw": "The vision system detects the ball and the goal.", "processed": "the vision system detects the ball and the goal"},
					},
				},
			},
		},
	}
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func newTestRenderer() ui.Renderer {
	return ui.NewPlainRenderer(ui.Config{Output: io.Discard})
}

func TestRunIndexesPapersIntoVectorStore(t *testing.T) {
	dir := t.TempDir()
	writePaperFixture(t, dir, "soccer_smallsize__2019__RoboTeam_1.json", 2019, "RoboTeam")

	metadata := newFakeMetadataStore()
	vector := &fakeVectorStore{}
	embedder := embed.NewStaticEmbedder768()

	cfg := DefaultConfig()
	cfg.PapersRoot = dir
	cfg.Run = "test-run"

	ix, err := New(cfg, Dependencies{Renderer: newTestRenderer(), Metadata: metadata, Vector: vector, Embedder: embedder})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := ix.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Papers != 1 {
		t.Errorf("Papers = %d, want 1", result.Papers)
	}
	if result.Chunks == 0 {
		t.Error("expected at least one chunk")
	}
	if result.Terms == 0 {
		t.Error("expected a non-empty IDF lexicon")
	}
	if len(vector.points) != result.Chunks {
		t.Errorf("len(points) = %d, want %d", len(vector.points), result.Chunks)
	}
	if vector.ensuredDim != embedder.Dimensions() {
		t.Errorf("ensuredDim = %d, want %d", vector.ensuredDim, embedder.Dimensions())
	}
	if len(metadata.papers["test-run"]) != 1 {
		t.Errorf("persisted papers = %d, want 1", len(metadata.papers["test-run"]))
	}

	for _, p := range vector.points {
		if p.Payload.LYTI == "" {
			t.Error("expected a non-empty LYTI payload field")
		}
		if p.ID == uuid.Nil {
			t.Error("expected a non-nil chunk id")
		}
	}
}

func TestRunFiltersPapersByYear(t *testing.T) {
	dir := t.TempDir()
	writePaperFixture(t, dir, "soccer_smallsize__2019__RoboTeam_1.json", 2019, "RoboTeam")
	writePaperFixture(t, dir, "soccer_smallsize__2021__OtherTeam_1.json", 2021, "OtherTeam")

	metadata := newFakeMetadataStore()
	vector := &fakeVectorStore{}
	embedder := embed.NewStaticEmbedder768()

	cfg := DefaultConfig()
	cfg.PapersRoot = dir
	cfg.Run = "test-run"
	cfg.Filter.AddYear(2021)

	ix, err := New(cfg, Dependencies{Renderer: newTestRenderer(), Metadata: metadata, Vector: vector, Embedder: embedder})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	result, err := ix.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Papers != 1 {
		t.Fatalf("Papers = %d, want 1 (filtered to year 2021)", result.Papers)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PapersRoot = t.TempDir()
	cfg.Run = "r"

	if _, err := New(cfg, Dependencies{}); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}
