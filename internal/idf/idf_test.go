package idf

import (
	"context"
	"testing"
)

func TestBuildComputerVisionFixture(t *testing.T) {
	texts := []string{
		"I want to know more about computer vision algorithms",
		"I love computer vision algorithms",
		"Tell me more about computer vision algorithms",
	}

	lex, err := Build(context.Background(), texts, [3]uint32{1, 2, 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(lex) == 0 {
		t.Fatal("expected a non-empty lexicon")
	}

	mustContain := []string{
		"computer", "love",
		"computer vision", "about computer",
		"computer vision algorithms",
	}
	for _, term := range mustContain {
		if _, ok := lex[term]; !ok {
			t.Errorf("expected lexicon to contain %q", term)
		}
	}

	mustNotContain := []string{"i want", "about computer vision"}
	for _, term := range mustNotContain {
		if _, ok := lex[term]; ok {
			t.Errorf("expected lexicon to NOT contain %q", term)
		}
	}
}

func TestBuildTermIDsUniqueAndDense(t *testing.T) {
	texts := []string{
		"I want to know more about computer vision algorithms",
		"I love computer vision algorithms",
		"Tell me more about computer vision algorithms",
	}

	lex, err := Build(context.Background(), texts, [3]uint32{1, 2, 3})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	seen := make(map[uint32]bool)
	maxID := uint32(0)
	for _, term := range lex {
		if seen[term.ID] {
			t.Fatalf("duplicate term id %d", term.ID)
		}
		seen[term.ID] = true
		if term.ID > maxID {
			maxID = term.ID
		}
	}
	if len(seen) != len(lex) {
		t.Fatalf("expected %d unique ids, got %d", len(lex), len(seen))
	}
	if int(maxID)+1 != len(lex) {
		t.Errorf("ids are not dense: max id %d, lexicon size %d", maxID, len(lex))
	}
}

func TestBuildDeterministic(t *testing.T) {
	texts := []string{
		"I want to know more about computer vision algorithms",
		"I love computer vision algorithms",
		"Tell me more about computer vision algorithms",
	}

	lex1, err := Build(context.Background(), texts, DefaultMinCounts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	lex2, err := Build(context.Background(), texts, DefaultMinCounts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(lex1) != len(lex2) {
		t.Fatalf("non-deterministic lexicon size: %d vs %d", len(lex1), len(lex2))
	}
	for word, term := range lex1 {
		other, ok := lex2[word]
		if !ok || other != term {
			t.Errorf("term %q differs between runs: %+v vs %+v", word, term, other)
		}
	}
}

func TestBuildEmptyTexts(t *testing.T) {
	lex, err := Build(context.Background(), nil, DefaultMinCounts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(lex) != 0 {
		t.Errorf("expected empty lexicon for no documents, got %d entries", len(lex))
	}
}
