// Package store defines the persistence contracts shared by the metadata,
// vector and activity backends, plus the run-scoped Chunk record that
// flows between the indexer and the retriever.
package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/emielsteerneman/tdpsearch/internal/paper"
	"github.com/emielsteerneman/tdpsearch/internal/sparse"
)

// chunkIDNamespace is the fixed zero namespace chunk ids are derived
// under, making id derivation depend only on the identity string.
var chunkIDNamespace = uuid.UUID{}

// Chunk is the unit of retrieval: a contiguous text window of one
// paragraph, with its embeddings and enough paper context to satisfy a
// Filter without a join back to the paper catalogue.
type Chunk struct {
	ID                  uuid.UUID
	PaperID             paper.TDPName
	ParagraphSequenceID int
	ChunkSequenceID     int
	IdxBegin            int
	IdxEnd              int
	Text                string
	DenseEmbedding      []float32
	SparseEmbedding     sparse.Vector
}

// ChunkID derives the deterministic UUID v5 identity of a chunk from its
// paper id and position, so re-indexing identical input reproduces
// identical ids.
func ChunkID(paperID string, paragraphSequenceID, chunkSequenceID int) uuid.UUID {
	identity := fmt.Sprintf("%s__%d__%d", paperID, paragraphSequenceID, chunkSequenceID)
	return uuid.NewSHA1(chunkIDNamespace, []byte(identity))
}

// ScoredChunk pairs a chunk with its retrieval score.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// Term is one entry of an IDF lexicon as persisted to the metadata store.
type Term struct {
	Word        string
	ID          uint32
	WeightedIDF float32
}

// MetadataStore persists, per run, the IDF lexicon and the paper
// catalogue (the `idf_index` and `tdp` tables).
type MetadataStore interface {
	// ReplaceIDF atomically replaces run's idf_index rows: delete then
	// batch-insert under one transaction.
	ReplaceIDF(ctx context.Context, run string, terms []Term) error
	// LoadIDF returns every idf_index row for run.
	LoadIDF(ctx context.Context, run string) ([]Term, error)

	// ReplacePapers atomically replaces run's tdp rows.
	ReplacePapers(ctx context.Context, run string, papers []paper.TDPName) error
	// ListPapers returns every tdp row for run, optionally narrowed by
	// league/team (empty string = unconstrained) and year (nil = any).
	ListPapers(ctx context.Context, run, league, team string, year *uint32) ([]paper.TDPName, error)

	Close() error
}

// VectorPoint is one point upserted into the vector index: a chunk's two
// named vectors (dense, sparse) plus its filterable payload.
type VectorPoint struct {
	ID      uuid.UUID
	Dense   []float32
	Sparse  sparse.Vector
	Payload Payload
}

// Payload is the exact, named set of filterable/decodable fields stored
// alongside a point.
type Payload struct {
	League              string
	Year                uint32
	Team                string
	LYTI                string // canonical paper-id string
	ParagraphSequenceID int
	ChunkSequenceID     int
	IdxBegin            int
	IdxEnd              int
	Text                string
}

// SearchHit is one vector-index search result: the point id, its fused
// score, and the decoded payload.
type SearchHit struct {
	ID      uuid.UUID
	Score   float64
	Payload Payload
}

// VectorFilter is the vector-index-native translation of a filter.Filter:
// membership conditions over payload fields.
type VectorFilter struct {
	Leagues  []string
	Years    []uint32
	Teams    []string
	PaperIDs []string
}

// VectorStore persists chunk points under two named vectors and serves
// fused dense+sparse nearest-neighbour search with structured filtering.
type VectorStore interface {
	// EnsureCollection creates the "chunk" collection (two named
	// vectors: dense at denseDim, cosine; sparse) if it doesn't exist.
	EnsureCollection(ctx context.Context, denseDim int) error

	// Upsert writes points idempotently, keyed by their UUID v5 id.
	Upsert(ctx context.Context, points []VectorPoint) error

	// DeleteRun removes every point whose payload.lyti is in paperIDs.
	// The indexer does not call it: re-indexing overwrites points through
	// Upsert under their deterministic ids.
	DeleteRun(ctx context.Context, run string, paperIDs []string) error

	// SearchHybrid issues a fused dense+sparse nearest-neighbour query
	// with RRF, filtered by filter. Either dense or sparse may be nil
	// to request a single-modality search.
	SearchHybrid(ctx context.Context, dense []float32, sparse sparse.Vector, limit int, filter VectorFilter) ([]SearchHit, error)

	Close() error
}

// ActivityEvent is one row of the activity/audit log: a free-form search
// or indexing event, best-effort logged.
type ActivityEvent struct {
	Source string // e.g. "http", "mcp", "cli"
	Action string // e.g. "search", "index"
	Detail map[string]string
}

// ActivityStore records best-effort activity events. Failures here are
// always swallowed by callers at the warn level, never surfaced.
type ActivityStore interface {
	Log(ctx context.Context, event ActivityEvent) error
	Close() error
}
