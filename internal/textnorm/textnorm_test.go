package textnorm

import "testing"

func TestClean(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":       "hello world",
		"  spaced   out  ":    "spaced out",
		"Er-Force":            "er force",
		"already lower":       "already lower",
		"punct!!!only???here": "punct only here",
	}
	for in, want := range cases {
		if got := Clean(in); got != want {
			t.Errorf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestToWords(t *testing.T) {
	uni, bi, tri := ToWords("computer vision algorithms")
	wantUni := []string{"computer", "vision", "algorithms"}
	wantBi := []string{"computer vision", "vision algorithms"}
	wantTri := []string{"computer vision algorithms"}

	if !equal(uni, wantUni) {
		t.Errorf("unigrams = %v, want %v", uni, wantUni)
	}
	if !equal(bi, wantBi) {
		t.Errorf("bigrams = %v, want %v", bi, wantBi)
	}
	if !equal(tri, wantTri) {
		t.Errorf("trigrams = %v, want %v", tri, wantTri)
	}
}

func TestToWordsShortText(t *testing.T) {
	uni, bi, tri := ToWords("one")
	if len(uni) != 1 || bi != nil || tri != nil {
		t.Errorf("short text should yield no bigrams/trigrams, got uni=%v bi=%v tri=%v", uni, bi, tri)
	}
}

func TestAlphanumericCollapse(t *testing.T) {
	if got := AlphanumericCollapse("Er-Force"); got != "erforce" {
		t.Errorf("AlphanumericCollapse = %q, want erforce", got)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
