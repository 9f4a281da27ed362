// Package vector implements store.VectorStore against a Qdrant collection
// with two named vectors ("dense", "sparse") and RRF-fused hybrid queries.
package vector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/emielsteerneman/tdpsearch/internal/apperrors"
	"github.com/emielsteerneman/tdpsearch/internal/sparse"
	"github.com/emielsteerneman/tdpsearch/internal/store"
)

const collectionName = "chunk"

// Store implements store.VectorStore against a single Qdrant collection.
type Store struct {
	client *qdrant.Client
}

var _ store.VectorStore = (*Store)(nil)

// Config is the subset of connection parameters a caller supplies;
// everything else about the collection is fixed by the contract.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// Dial opens a Qdrant gRPC connection.
func Dial(cfg Config) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("dial qdrant: %w", err)
	}
	return &Store{client: client}, nil
}

// EnsureCollection creates the "chunk" collection with dense (denseDim,
// cosine) and sparse named vectors if it doesn't already exist. If it
// exists with a different dense dimension, it fails fast.
func (s *Store) EnsureCollection(ctx context.Context, denseDim int) error {
	exists, err := s.client.CollectionExists(ctx, collectionName)
	if err != nil {
		return fmt.Errorf("check collection existence: %w", err)
	}
	if exists {
		info, err := s.client.GetCollectionInfo(ctx, collectionName)
		if err != nil {
			return fmt.Errorf("get collection info: %w", err)
		}
		params := info.GetConfig().GetParams().GetVectorsConfig().GetParamsMap().GetMap()
		dense, ok := params["dense"]
		if !ok {
			return fmt.Errorf("collection %q has no %q named vector", collectionName, "dense")
		}
		if got := int(dense.GetSize()); got != denseDim {
			return apperrors.InvalidDimension(denseDim, got)
		}
		return nil
	}

	_, err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfigMap(map[string]*qdrant.VectorParams{
			"dense": {
				Size:     uint64(denseDim),
				Distance: qdrant.Distance_Cosine,
			},
		}),
		SparseVectorsConfig: qdrant.NewSparseVectorsConfig(map[string]*qdrant.SparseVectorParams{
			"sparse": {},
		}),
	})
	if err != nil {
		return fmt.Errorf("create collection %q: %w", collectionName, err)
	}
	return nil
}

// Upsert writes points idempotently, keyed by their UUID v5 id.
func (s *Store) Upsert(ctx context.Context, points []store.VectorPoint) error {
	if len(points) == 0 {
		return nil
	}

	qpoints := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		indices, values := sparseComponents(p.Sparse)
		qpoints = append(qpoints, &qdrant.PointStruct{
			Id: qdrant.NewIDUUID(p.ID.String()),
			Vectors: qdrant.NewVectorsMap(map[string]*qdrant.Vector{
				"dense":  qdrant.NewVector(p.Dense...),
				"sparse": qdrant.NewVectorSparse(indices, values),
			}),
			Payload: qdrant.NewValueMap(map[string]any{
				"league":                p.Payload.League,
				"year":                  p.Payload.Year,
				"team":                  p.Payload.Team,
				"lyti":                  p.Payload.LYTI,
				"paragraph_sequence_id": p.Payload.ParagraphSequenceID,
				"chunk_sequence_id":     p.Payload.ChunkSequenceID,
				"idx_begin":             p.Payload.IdxBegin,
				"idx_end":               p.Payload.IdxEnd,
				"text":                  p.Payload.Text,
			}),
		})
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         qpoints,
		Wait:           &wait,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindUpstream, fmt.Sprintf("upsert %d points", len(points)), err)
	}
	return nil
}

// DeleteRun removes every point whose payload.lyti is among paperIDs. The
// "chunk" collection has no run field of its own; run-scoping happens at
// the caller, which supplies exactly that run's paper ids.
func (s *Store) DeleteRun(ctx context.Context, run string, paperIDs []string) error {
	if len(paperIDs) == 0 {
		return nil
	}

	var should []*qdrant.Condition
	for _, id := range paperIDs {
		should = append(should, qdrant.NewMatch("lyti", id))
	}

	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: collectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Should: should,
		}),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindUpstream, fmt.Sprintf("delete run %q points", run), err)
	}
	return nil
}

// SearchHybrid issues an RRF-fused dense+sparse nearest-neighbour query,
// filtered by filter. Either dense or sparse may be nil to request a
// single-modality search.
func (s *Store) SearchHybrid(ctx context.Context, dense []float32, sparseVec sparse.Vector, limit int, filter store.VectorFilter) ([]store.SearchHit, error) {
	qfilter := buildFilter(filter)
	uLimit := uint64(limit)

	var req *qdrant.QueryPoints
	switch {
	case len(dense) > 0 && len(sparseVec) > 0:
		prefetchLimit := uint64(limit * 4)
		indices, values := sparseComponents(sparseVec)
		req = &qdrant.QueryPoints{
			CollectionName: collectionName,
			Prefetch: []*qdrant.PrefetchQuery{
				{
					Query: qdrant.NewQueryDense(dense),
					Using: strPtr("dense"),
					Limit: &prefetchLimit,
					Filter: qfilter,
				},
				{
					Query: qdrant.NewQuerySparse(indices, values),
					Using: strPtr("sparse"),
					Limit: &prefetchLimit,
					Filter: qfilter,
				},
			},
			Query:       qdrant.NewQueryFusion(qdrant.Fusion_RRF),
			Limit:       &uLimit,
			Filter:      qfilter,
			WithPayload: qdrant.NewWithPayloadEnable(true),
		}
	case len(dense) > 0:
		req = &qdrant.QueryPoints{
			CollectionName: collectionName,
			Query:          qdrant.NewQueryDense(dense),
			Using:          strPtr("dense"),
			Limit:          &uLimit,
			Filter:         qfilter,
			WithPayload:    qdrant.NewWithPayloadEnable(true),
		}
	case len(sparseVec) > 0:
		indices, values := sparseComponents(sparseVec)
		req = &qdrant.QueryPoints{
			CollectionName: collectionName,
			Query:          qdrant.NewQuerySparse(indices, values),
			Using:          strPtr("sparse"),
			Limit:          &uLimit,
			Filter:         qfilter,
			WithPayload:    qdrant.NewWithPayloadEnable(true),
		}
	default:
		return nil, fmt.Errorf("search hybrid: neither dense nor sparse subquery supplied")
	}

	resp, err := s.client.Query(ctx, req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, fmt.Sprintf("query collection %q", collectionName), err)
	}

	hits := make([]store.SearchHit, 0, len(resp))
	for _, point := range resp {
		payload, err := decodePayload(point.GetPayload())
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(point.GetId().GetUuid())
		if err != nil {
			return nil, fmt.Errorf("point id %q is not a uuid: %w", point.GetId().GetUuid(), err)
		}
		hits = append(hits, store.SearchHit{
			ID:      id,
			Score:   float64(point.GetScore()),
			Payload: payload,
		})
	}
	return hits, nil
}

// Close releases the underlying gRPC connection.
func (s *Store) Close() error {
	return s.client.Close()
}

func sparseComponents(v sparse.Vector) ([]uint32, []float32) {
	indices := make([]uint32, 0, len(v))
	values := make([]float32, 0, len(v))
	for id, weight := range v {
		indices = append(indices, id)
		values = append(values, weight)
	}
	return indices, values
}

func buildFilter(f store.VectorFilter) *qdrant.Filter {
	var must []*qdrant.Condition

	addKeywordOr := func(field string, values []string) {
		if len(values) == 0 {
			return
		}
		var group []*qdrant.Condition
		for _, v := range values {
			group = append(group, qdrant.NewMatch(field, v))
		}
		if len(group) == 1 {
			must = append(must, group[0])
			return
		}
		must = append(must, qdrant.NewFilterAsCondition(&qdrant.Filter{Should: group}))
	}

	addKeywordOr("league", f.Leagues)
	addKeywordOr("team", f.Teams)
	addKeywordOr("lyti", f.PaperIDs)

	if len(f.Years) > 0 {
		var group []*qdrant.Condition
		for _, y := range f.Years {
			group = append(group, qdrant.NewMatchInt("year", int64(y)))
		}
		if len(group) == 1 {
			must = append(must, group[0])
		} else {
			must = append(must, qdrant.NewFilterAsCondition(&qdrant.Filter{Should: group}))
		}
	}

	if len(must) == 0 {
		return nil
	}
	return &qdrant.Filter{Must: must}
}

func decodePayload(p map[string]*qdrant.Value) (store.Payload, error) {
	str := func(key string) (string, error) {
		v, ok := p[key]
		if !ok {
			return "", apperrors.FieldMissing(key)
		}
		return v.GetStringValue(), nil
	}
	num := func(key string) (int64, error) {
		v, ok := p[key]
		if !ok {
			return 0, apperrors.FieldMissing(key)
		}
		return v.GetIntegerValue(), nil
	}

	league, err := str("league")
	if err != nil {
		return store.Payload{}, err
	}
	team, err := str("team")
	if err != nil {
		return store.Payload{}, err
	}
	lyti, err := str("lyti")
	if err != nil {
		return store.Payload{}, err
	}
	text, err := str("text")
	if err != nil {
		return store.Payload{}, err
	}
	year, err := num("year")
	if err != nil {
		return store.Payload{}, err
	}
	paragraphSeq, err := num("paragraph_sequence_id")
	if err != nil {
		return store.Payload{}, err
	}
	chunkSeq, err := num("chunk_sequence_id")
	if err != nil {
		return store.Payload{}, err
	}
	idxBegin, err := num("idx_begin")
	if err != nil {
		return store.Payload{}, err
	}
	idxEnd, err := num("idx_end")
	if err != nil {
		return store.Payload{}, err
	}

	return store.Payload{
		League:              league,
		Year:                uint32(year),
		Team:                team,
		LYTI:                lyti,
		ParagraphSequenceID: int(paragraphSeq),
		ChunkSequenceID:     int(chunkSeq),
		IdxBegin:            int(idxBegin),
		IdxEnd:              int(idxEnd),
		Text:                text,
	}, nil
}

func strPtr(s string) *string { return &s }
