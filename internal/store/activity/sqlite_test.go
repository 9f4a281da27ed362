package activity

import (
	"context"
	"testing"

	"github.com/emielsteerneman/tdpsearch/internal/store"
)

func TestLogRecordsEvent(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	err = s.Log(context.Background(), store.ActivityEvent{
		Source: "http",
		Action: "search",
		Detail: map[string]string{"query": "omnidirectional drive"},
	})
	if err != nil {
		t.Errorf("Log() error = %v", err)
	}
}

func TestLogMultipleEvents(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := s.Log(ctx, store.ActivityEvent{Source: "cli", Action: "index"}); err != nil {
			t.Errorf("Log() error = %v", err)
		}
	}
}
