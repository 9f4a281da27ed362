package fuzzy

import "testing"

func TestJaroWinklerIdentical(t *testing.T) {
	if s := jaroWinkler("roboteam", "roboteam"); s != 1 {
		t.Errorf("identical strings should score 1, got %f", s)
	}
}

func TestJaroWinklerEmpty(t *testing.T) {
	if s := jaroWinkler("", "anything"); s != 0 {
		t.Errorf("empty string should score 0, got %f", s)
	}
}

func TestJaroWinklerPrefixBoost(t *testing.T) {
	withPrefix := jaroWinkler("roboteam", "roboteams")
	withoutPrefix := jaroWinkler("mtaerobo", "steamrobo")
	if withPrefix <= withoutPrefix {
		t.Errorf("shared-prefix pair should score higher: %f vs %f", withPrefix, withoutPrefix)
	}
}

func TestSuggestMatchesAlphanumericCollapse(t *testing.T) {
	results := Suggest([]string{"Er-Force", "TIGERs Mannheim"}, "erforce")
	found := false
	for _, r := range results {
		if r == "Er-Force" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'Er-Force' to be suggested for query 'erforce', got %v", results)
	}
}

func TestSuggestExcludesUnrelated(t *testing.T) {
	results := Suggest([]string{"TIGERs Mannheim"}, "completely unrelated words")
	if len(results) != 0 {
		t.Errorf("expected no suggestions, got %v", results)
	}
}

func TestSuggestSortedDescending(t *testing.T) {
	results := Suggest([]string{"RoboTeam Twente", "RoboTeam"}, "roboteam twente")
	if len(results) < 2 {
		t.Fatalf("expected at least 2 suggestions, got %v", results)
	}
	if results[0] != "RoboTeam Twente" {
		t.Errorf("expected the closer match first, got %v", results)
	}
}
