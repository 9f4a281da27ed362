package indexer

import (
	"context"
	"testing"

	"github.com/emielsteerneman/tdpsearch/internal/embed"
)

func TestRunAcquiresAndReleasesLock(t *testing.T) {
	dir := t.TempDir()
	writePaperFixture(t, dir, "soccer_smallsize__2019__RoboTeam_1.json", 2019, "RoboTeam")

	lockDir := t.TempDir()
	cfg := DefaultConfig()
	cfg.PapersRoot = dir
	cfg.Run = "test-run"
	cfg.LockDir = lockDir

	deps := Dependencies{
		Renderer: newTestRenderer(),
		Metadata: newFakeMetadataStore(),
		Vector:   &fakeVectorStore{},
		Embedder: embed.NewStaticEmbedder768(),
	}
	ix, err := New(cfg, deps)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := ix.Run(context.Background()); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	// The lock must be released after Run returns, so a second run against
	// the same lock directory succeeds rather than blocking forever.
	if _, err := ix.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}
}

func TestRunLockExcludesConcurrentHolder(t *testing.T) {
	dir := t.TempDir()
	lock := newRunLock(dir)
	if err := lock.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer lock.Unlock()

	other := newRunLock(dir)
	acquired, err := other.flock.TryLock()
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	if acquired {
		t.Fatal("expected TryLock to fail while the first lock is held")
	}
}
