package search

import (
	"context"
	"fmt"

	"github.com/emielsteerneman/tdpsearch/internal/apperrors"
	"github.com/emielsteerneman/tdpsearch/internal/filter"
	"github.com/emielsteerneman/tdpsearch/internal/paper"
	"github.com/emielsteerneman/tdpsearch/internal/sparse"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

// ErrEmptyQuery is returned by Retrieve when neither a dense nor a sparse
// vector is supplied.
var ErrEmptyQuery = apperrors.New(apperrors.KindEmptyQuery, "at least one of dense or sparse must be present")

// Retriever issues dense/sparse/hybrid subqueries against a vector store
// and decodes the results back into scored chunks (C7).
type Retriever struct {
	vector store.VectorStore
}

// NewRetriever creates a Retriever backed by vs.
func NewRetriever(vs store.VectorStore) *Retriever {
	return &Retriever{vector: vs}
}

// Retrieve issues a fused dense+sparse nearest-neighbour query (or a
// single-modality query if only one of dense/sparseVec is present),
// filtered by f, and decodes the top-limit results into scored chunks.
func (r *Retriever) Retrieve(ctx context.Context, dense []float32, sparseVec sparse.Vector, limit int, f filter.Filter) ([]store.ScoredChunk, error) {
	if len(dense) == 0 && len(sparseVec) == 0 {
		return nil, ErrEmptyQuery
	}

	hits, err := r.vector.SearchHybrid(ctx, dense, sparseVec, limit, toVectorFilter(f))
	if err != nil {
		return nil, err
	}

	chunks := make([]store.ScoredChunk, len(hits))
	for i, hit := range hits {
		c, err := decodeChunk(hit)
		if err != nil {
			return nil, err
		}
		chunks[i] = c
	}
	return chunks, nil
}

// toVectorFilter translates a filter.Filter's pretty-form sets into the
// vector-store-native VectorFilter. League/team pretty forms pass through
// unchanged since the vector-index payload stores them in the same pretty
// form (spec.md §6).
func toVectorFilter(f filter.Filter) store.VectorFilter {
	var vf store.VectorFilter
	for league := range f.Leagues {
		vf.Leagues = append(vf.Leagues, league)
	}
	for team := range f.Teams {
		vf.Teams = append(vf.Teams, team)
	}
	for year := range f.Years {
		vf.Years = append(vf.Years, year)
	}
	for id := range f.PaperIDs {
		vf.PaperIDs = append(vf.PaperIDs, id)
	}
	return vf
}

// decodeChunk reconstructs a store.ScoredChunk from one vector-index hit's
// payload. A missing/malformed paper identity on the payload is a hard
// FieldMissing-class error per spec.md §4.7, signalling index corruption,
// not a skippable result.
func decodeChunk(hit store.SearchHit) (store.ScoredChunk, error) {
	tdp, err := paper.ParseTDPName(hit.Payload.LYTI)
	if err != nil {
		return store.ScoredChunk{}, apperrors.Wrap(apperrors.KindFieldMissing, fmt.Sprintf("payload lyti %q", hit.Payload.LYTI), err)
	}

	return store.ScoredChunk{
		Chunk: store.Chunk{
			ID:                  hit.ID,
			PaperID:             tdp,
			ParagraphSequenceID: hit.Payload.ParagraphSequenceID,
			ChunkSequenceID:     hit.Payload.ChunkSequenceID,
			IdxBegin:            hit.Payload.IdxBegin,
			IdxEnd:              hit.Payload.IdxEnd,
			Text:                hit.Payload.Text,
		},
		Score: hit.Score,
	}, nil
}
