package metadata

import (
	"context"
	"testing"

	"github.com/emielsteerneman/tdpsearch/internal/paper"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestReplaceAndLoadIDF(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	terms := []store.Term{
		{Word: "computer", ID: 0, WeightedIDF: 1.2},
		{Word: "vision", ID: 1, WeightedIDF: 1.5},
	}
	if err := s.ReplaceIDF(ctx, "run1", terms); err != nil {
		t.Fatalf("ReplaceIDF() error = %v", err)
	}

	got, err := s.LoadIDF(ctx, "run1")
	if err != nil {
		t.Fatalf("LoadIDF() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LoadIDF() returned %d terms, want 2", len(got))
	}
	if got[0].Word != "computer" || got[1].Word != "vision" {
		t.Errorf("LoadIDF() = %+v, want ordered by idx", got)
	}
}

func TestReplaceIDFIsAtomicReplace(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.ReplaceIDF(ctx, "run1", []store.Term{{Word: "old", ID: 0, WeightedIDF: 1}})
	_ = s.ReplaceIDF(ctx, "run1", []store.Term{{Word: "new", ID: 0, WeightedIDF: 2}})

	got, err := s.LoadIDF(ctx, "run1")
	if err != nil {
		t.Fatalf("LoadIDF() error = %v", err)
	}
	if len(got) != 1 || got[0].Word != "new" {
		t.Errorf("LoadIDF() = %+v, want only the replaced term", got)
	}
}

func TestIDFScopedByRun(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_ = s.ReplaceIDF(ctx, "run1", []store.Term{{Word: "a", ID: 0, WeightedIDF: 1}})
	_ = s.ReplaceIDF(ctx, "run2", []store.Term{{Word: "b", ID: 0, WeightedIDF: 1}})

	got, err := s.LoadIDF(ctx, "run1")
	if err != nil {
		t.Fatalf("LoadIDF() error = %v", err)
	}
	if len(got) != 1 || got[0].Word != "a" {
		t.Errorf("LoadIDF(run1) = %+v, want only run1's term", got)
	}
}

func TestReplaceAndListPapers(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	name, err := paper.ParseTDPName("soccer_smallsize__2019__RoboTeam_Twente__1.pdf")
	if err != nil {
		t.Fatalf("ParseTDPName() error = %v", err)
	}

	if err := s.ReplacePapers(ctx, "run1", []paper.TDPName{name}); err != nil {
		t.Fatalf("ReplacePapers() error = %v", err)
	}

	papers, err := s.ListPapers(ctx, "run1", "", "", nil)
	if err != nil {
		t.Fatalf("ListPapers() error = %v", err)
	}
	if len(papers) != 1 {
		t.Fatalf("ListPapers() returned %d papers, want 1", len(papers))
	}
	if papers[0].Filename() != name.Filename() {
		t.Errorf("ListPapers()[0] = %q, want %q", papers[0].Filename(), name.Filename())
	}
}

func TestListPapersFilteredByYear(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, _ := paper.ParseTDPName("soccer_smallsize__2019__RoboTeam_Twente__1.pdf")
	b, _ := paper.ParseTDPName("soccer_smallsize__2021__RoboTeam_Twente__1.pdf")
	if err := s.ReplacePapers(ctx, "run1", []paper.TDPName{a, b}); err != nil {
		t.Fatalf("ReplacePapers() error = %v", err)
	}

	year := uint32(2021)
	papers, err := s.ListPapers(ctx, "run1", "", "", &year)
	if err != nil {
		t.Fatalf("ListPapers() error = %v", err)
	}
	if len(papers) != 1 || papers[0].Year != 2021 {
		t.Errorf("ListPapers(year=2021) = %+v, want only the 2021 paper", papers)
	}
}
