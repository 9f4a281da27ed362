package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfDirect(t *testing.T) {
	err := New(KindInvalidInput, "bad league separator")
	if got := KindOf(err); got != KindInvalidInput {
		t.Errorf("KindOf() = %v, want %v", got, KindInvalidInput)
	}
}

func TestKindOfWrapped(t *testing.T) {
	inner := New(KindUpstream, "embedder timed out")
	outer := fmt.Errorf("search failed: %w", inner)
	if got := KindOf(outer); got != KindUpstream {
		t.Errorf("KindOf() = %v, want %v", got, KindUpstream)
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if got := KindOf(errors.New("plain error")); got != KindInternal {
		t.Errorf("KindOf() = %v, want %v", got, KindInternal)
	}
}

func TestFieldMissingNamesField(t *testing.T) {
	err := FieldMissing("idx_begin")
	if err.Kind != KindFieldMissing {
		t.Errorf("Kind = %v, want %v", err.Kind, KindFieldMissing)
	}
}
