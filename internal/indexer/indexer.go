// Package indexer orchestrates C2–C5 over a corpus of paper JSON documents
// (C6): load and validate papers, persist the catalogue, flatten paragraphs
// into chunks, build the IDF lexicon, and embed+upsert every chunk into the
// vector index.
package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/emielsteerneman/tdpsearch/internal/chunk"
	"github.com/emielsteerneman/tdpsearch/internal/embed"
	"github.com/emielsteerneman/tdpsearch/internal/filter"
	"github.com/emielsteerneman/tdpsearch/internal/idf"
	"github.com/emielsteerneman/tdpsearch/internal/paper"
	"github.com/emielsteerneman/tdpsearch/internal/sparse"
	"github.com/emielsteerneman/tdpsearch/internal/store"
	"github.com/emielsteerneman/tdpsearch/internal/ui"
)

// Config configures one indexing run.
type Config struct {
	// PapersRoot is the directory containing paper JSON documents.
	PapersRoot string

	// Run is the run-scope label under which papers, IDF and vector
	// points are persisted (spec.md §3's "Run" concept).
	Run string

	// Filter optionally restricts which papers are (re)indexed, using
	// the same filter model applied at query time.
	Filter filter.Filter

	// CharsPerChunk/CharsOverlap are C2's window/overlap budget.
	CharsPerChunk int
	CharsOverlap  int

	// MinCounts is C3's per-gram-order minimum document-frequency cutoff.
	MinCounts [3]uint32

	// LockDir, when set, serializes concurrent Run calls against the same
	// metadata/vector store pair behind an advisory file lock (C20). Empty
	// disables locking, e.g. in tests against isolated stores.
	LockDir string
}

// DefaultConfig returns a Config with spec.md's implementation-note
// defaults filled in; callers still must set PapersRoot and Run.
func DefaultConfig() Config {
	return Config{
		CharsPerChunk: 1000,
		CharsOverlap:  200,
		MinCounts:     idf.DefaultMinCounts,
	}
}

// Dependencies are the injected collaborators an Indexer drives.
type Dependencies struct {
	Renderer ui.Renderer
	Metadata store.MetadataStore
	Vector   store.VectorStore
	Embedder embed.Embedder
}

// Result summarises the outcome of a run.
type Result struct {
	Papers   int
	Chunks   int
	Terms    int
	Duration time.Duration
	Warnings int
}

// Indexer executes C6 against injected dependencies.
type Indexer struct {
	cfg  Config
	deps Dependencies
}

// New creates an Indexer. Renderer, Metadata, Vector and Embedder are
// required.
func New(cfg Config, deps Dependencies) (*Indexer, error) {
	if deps.Renderer == nil {
		return nil, fmt.Errorf("indexer: renderer is required")
	}
	if deps.Metadata == nil {
		return nil, fmt.Errorf("indexer: metadata store is required")
	}
	if deps.Vector == nil {
		return nil, fmt.Errorf("indexer: vector store is required")
	}
	if deps.Embedder == nil {
		return nil, fmt.Errorf("indexer: embedder is required")
	}
	if cfg.Run == "" {
		return nil, fmt.Errorf("indexer: run label is required")
	}
	if cfg.CharsPerChunk == 0 {
		def := DefaultConfig()
		cfg.CharsPerChunk, cfg.CharsOverlap, cfg.MinCounts = def.CharsPerChunk, def.CharsOverlap, def.MinCounts
	}
	return &Indexer{cfg: cfg, deps: deps}, nil
}

// flatChunk is one chunk still attached to its owning paper and sequence
// ids, ahead of embedding.
type flatChunk struct {
	paperID             paper.TDPName
	paragraphSequenceID int
	chunkSequenceID     int
	idxBegin            int
	idxEnd              int
	text                string
}

// Run executes the five-step C6 pipeline: load papers, persist the
// catalogue, flatten chunks, build and persist the IDF lexicon, then embed
// and upsert every chunk.
func (ix *Indexer) Run(ctx context.Context) (Result, error) {
	if ix.cfg.LockDir != "" {
		lock := newRunLock(ix.cfg.LockDir)
		if err := lock.Lock(); err != nil {
			return Result{}, fmt.Errorf("indexer: %w", err)
		}
		defer lock.Unlock()
	}

	start := time.Now()
	r := ix.deps.Renderer
	if err := r.Start(ctx); err != nil {
		return Result{}, fmt.Errorf("indexer: start renderer: %w", err)
	}
	defer r.Stop()

	var result Result
	var warnings int

	// Step 1: load and validate every paper JSON, optionally filtered.
	r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageScanning, Message: "loading papers"})
	docs, loadWarnings, err := loadPapers(ix.cfg.PapersRoot, ix.cfg.Filter)
	if err != nil {
		return Result{}, fmt.Errorf("indexer: load papers: %w", err)
	}
	warnings += loadWarnings

	// Step 2: persist the paper catalogue transactionally under this run.
	names := make([]paper.TDPName, len(docs))
	for i, d := range docs {
		names[i] = d.ID
	}
	if err := ix.deps.Metadata.ReplacePapers(ctx, ix.cfg.Run, names); err != nil {
		return Result{}, fmt.Errorf("indexer: persist paper catalogue: %w", err)
	}
	result.Papers = len(docs)

	// Step 3: flatten paragraphs into chunks, preserving sequence ids.
	r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageChunking, Total: len(docs), Message: "chunking paragraphs"})
	var flat []flatChunk
	for i, d := range docs {
		fc, err := flattenDocument(d, ix.cfg.CharsPerChunk, ix.cfg.CharsOverlap)
		if err != nil {
			slog.Warn("indexer: skipping paper with invalid chunk budget", "paper", d.ID.Filename(), "error", err)
			r.AddError(ui.ErrorEvent{File: d.ID.Filename(), Err: err, IsWarn: true})
			warnings++
			continue
		}
		flat = append(flat, fc...)
		r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageChunking, Current: i + 1, Total: len(docs), CurrentFile: d.ID.Filename()})
	}
	result.Chunks = len(flat)

	// Step 4: build the IDF lexicon over every chunk text, persist it.
	r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageContextual, Message: "building IDF lexicon"})
	texts := make([]string, len(flat))
	for i, c := range flat {
		texts[i] = c.text
	}
	lexicon, err := idf.Build(ctx, texts, ix.cfg.MinCounts)
	if err != nil {
		return Result{}, fmt.Errorf("indexer: build IDF lexicon: %w", err)
	}
	terms := make([]store.Term, 0, len(lexicon))
	for word, t := range lexicon {
		terms = append(terms, store.Term{Word: word, ID: t.ID, WeightedIDF: t.WeightedIDF})
	}
	if err := ix.deps.Metadata.ReplaceIDF(ctx, ix.cfg.Run, terms); err != nil {
		return Result{}, fmt.Errorf("indexer: persist IDF lexicon: %w", err)
	}
	result.Terms = len(terms)

	// Step 5: ensure the vector collection, then embed+upsert every chunk.
	if err := ix.deps.Vector.EnsureCollection(ctx, ix.deps.Embedder.Dimensions()); err != nil {
		return Result{}, fmt.Errorf("indexer: ensure vector collection: %w", err)
	}

	const embedBatchSize = 32
	r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageEmbedding, Total: len(flat), Message: "embedding chunks"})
	for batchStart := 0; batchStart < len(flat); batchStart += embedBatchSize {
		end := min(batchStart+embedBatchSize, len(flat))
		batch := flat[batchStart:end]

		batchTexts := make([]string, len(batch))
		for i, c := range batch {
			batchTexts[i] = c.text
		}
		dense, err := ix.deps.Embedder.EmbedBatch(ctx, batchTexts)
		if err != nil {
			return Result{}, fmt.Errorf("indexer: embed batch: %w", err)
		}

		points := make([]store.VectorPoint, len(batch))
		for i, c := range batch {
			points[i] = store.VectorPoint{
				ID:     store.ChunkID(c.paperID.Filename(), c.paragraphSequenceID, c.chunkSequenceID),
				Dense:  dense[i],
				Sparse: sparse.Embed(c.text, lexicon),
				Payload: store.Payload{
					League:              c.paperID.League.NamePretty,
					Year:                c.paperID.Year,
					Team:                c.paperID.Team.NamePretty,
					LYTI:                c.paperID.Filename(),
					ParagraphSequenceID: c.paragraphSequenceID,
					ChunkSequenceID:     c.chunkSequenceID,
					IdxBegin:            c.idxBegin,
					IdxEnd:              c.idxEnd,
					Text:                c.text,
				},
			}
		}
		if err := ix.deps.Vector.Upsert(ctx, points); err != nil {
			return Result{}, fmt.Errorf("indexer: upsert chunk points: %w", err)
		}
		r.UpdateProgress(ui.ProgressEvent{Stage: ui.StageEmbedding, Current: end, Total: len(flat)})
	}

	result.Duration = time.Since(start)
	result.Warnings = warnings

	r.Complete(ui.CompletionStats{
		Files:    result.Papers,
		Chunks:   result.Chunks,
		Duration: result.Duration,
		Warnings: result.Warnings,
		Embedder: ui.EmbedderInfo{
			Model:      ix.deps.Embedder.ModelName(),
			Dimensions: ix.deps.Embedder.Dimensions(),
		},
	})
	return result, nil
}

// loadPapers walks root for *.json paper documents, parses and optionally
// filters them, and returns them in a deterministic (filename-sorted)
// order.
func loadPapers(root string, f filter.Filter) ([]paper.Document, int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, 0, fmt.Errorf("read papers root %q: %w", root, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(root, e.Name()))
	}
	sort.Strings(paths)

	var docs []paper.Document
	var warnings int
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			slog.Warn("indexer: skipping unreadable paper", "path", p, "error", err)
			warnings++
			continue
		}
		doc, err := paper.ParseDocument(data)
		if err != nil {
			slog.Warn("indexer: skipping malformed paper", "path", p, "error", err)
			warnings++
			continue
		}
		if !f.IsEmpty() && !f.Matches(filter.Candidate{
			TeamPretty:   doc.ID.Team.NamePretty,
			LeaguePretty: doc.ID.League.NamePretty,
			Year:         doc.ID.Year,
			PaperID:      doc.ID.Filename(),
		}) {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, warnings, nil
}

// flattenDocument turns one paper's paragraphs into chunks (C2), assigning
// each chunk its paragraph and chunk sequence ids.
func flattenDocument(d paper.Document, charsPerChunk, charsOverlap int) ([]flatChunk, error) {
	var out []flatChunk
	for paragraphIdx, para := range d.Structure.Paragraphs {
		sentences := make([]chunk.Sentence, len(para.Sentences))
		for i, s := range para.Sentences {
			sentences[i] = chunk.Sentence{Raw: s.Raw, Processed: s.Processed}
		}
		chunks, err := chunk.CreateParagraphChunks(sentences, charsPerChunk, charsOverlap)
		if err != nil {
			return nil, fmt.Errorf("paragraph %d: %w", paragraphIdx, err)
		}
		for chunkIdx, c := range chunks {
			out = append(out, flatChunk{
				paperID:             d.ID,
				paragraphSequenceID: paragraphIdx,
				chunkSequenceID:     chunkIdx,
				idxBegin:            c.IdxBegin,
				idxEnd:              c.IdxEnd,
				text:                c.Text,
			})
		}
	}
	return out, nil
}
