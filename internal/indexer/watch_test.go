package indexer

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/emielsteerneman/tdpsearch/internal/embed"
)

func TestWatchTriggersReindexOnSettledBatch(t *testing.T) {
	dir := t.TempDir()

	metadata := newFakeMetadataStore()
	cfg := DefaultConfig()
	cfg.PapersRoot = dir
	cfg.Run = "test-run"

	ix, err := New(cfg, Dependencies{
		Renderer: newTestRenderer(),
		Metadata: metadata,
		Vector:   &fakeVectorStore{},
		Embedder: embed.NewStaticEmbedder768(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- ix.Watch(ctx, WatchConfig{SettleWindow: 100 * time.Millisecond}) }()

	time.Sleep(50 * time.Millisecond)
	writePaperFixture(t, dir, "soccer_smallsize__2019__RoboTeam_1.json", 2019, "RoboTeam")

	deadline := time.After(2 * time.Second)
	for {
		if len(metadata.papers["test-run"]) == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("watch did not trigger a re-index within the deadline")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		t.Fatalf("Watch returned unexpected error: %v", err)
	}
}

func TestWatchFailsOnMissingRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PapersRoot = filepath.Join(t.TempDir(), "does-not-exist")
	cfg.Run = "test-run"

	ix, err := New(cfg, Dependencies{
		Renderer: newTestRenderer(),
		Metadata: newFakeMetadataStore(),
		Vector:   &fakeVectorStore{},
		Embedder: embed.NewStaticEmbedder768(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := ix.Watch(context.Background(), WatchConfig{}); err == nil {
		t.Fatal("expected an error watching a nonexistent root")
	}
}
