// Package idf builds a weighted n-gram inverse-document-frequency lexicon
// over a corpus of chunk texts.
package idf

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/emielsteerneman/tdpsearch/internal/apperrors"
	"github.com/emielsteerneman/tdpsearch/internal/textnorm"
)

// Term is one lexicon entry: a stable numeric id and its weighted IDF.
type Term struct {
	ID          uint32
	WeightedIDF float32
}

// Lexicon maps surviving n-gram terms to their id and weighted IDF. It is
// built once per indexing run and treated as immutable and shared
// thereafter.
type Lexicon map[string]Term

// DefaultMinCounts is the per-gram-order minimum document-frequency
// threshold below which a term is dropped: unigrams need 1 supporting
// document, bigrams 5, trigrams 10.
var DefaultMinCounts = [3]uint32{1, 5, 10}

// ngramWeight scales a term's raw IDF by its gram order: longer n-grams are
// rarer by construction and are boosted to compensate.
var ngramWeight = [3]float32{1.0, 2.0, 3.0}

func calculateIDF(nDocs, nWord uint32) float32 {
	return float32(math.Log10((float64(nDocs)+1)/(float64(nWord)+1))) + 1
}

// Build constructs a Lexicon from texts, counting document frequency with
// one goroutine per text. minCounts is supplied by the caller (see
// DefaultMinCounts); the per-gram weights are the fixed [1,2,3] schedule.
func Build(ctx context.Context, texts []string, minCounts [3]uint32) (Lexicon, error) {
	for i, c := range minCounts {
		if c < 1 {
			return nil, apperrors.New(apperrors.KindInvalidInput, fmt.Sprintf("minCounts[%d] = %d, must be >= 1", i, c))
		}
	}

	docCounts, err := collectDocumentFrequency(ctx, texts)
	if err != nil {
		return nil, err
	}

	for i := range docCounts {
		for word, count := range docCounts[i] {
			if count < minCounts[i] {
				delete(docCounts[i], word)
				continue
			}
			if utf8.RuneCountInString(word) <= 1+i*2 {
				delete(docCounts[i], word)
			}
		}
	}

	nDocs := uint32(len(texts))
	lex := make(Lexicon)
	var idFactory uint32

	for i := 0; i < 3; i++ {
		words := make([]string, 0, len(docCounts[i]))
		for word := range docCounts[i] {
			words = append(words, word)
		}
		sort.Strings(words)

		for _, word := range words {
			docCount := docCounts[i][word]
			id := idFactory
			idFactory++

			weighted := calculateIDF(nDocs, docCount) * ngramWeight[i]
			lex[word] = Term{ID: id, WeightedIDF: weighted}
		}
	}

	return lex, nil
}

// collectDocumentFrequency processes each text in its own goroutine,
// updating all three gram-order maps under their mutexes, and returns, per
// gram order, a map from term to number of distinct documents it appeared in.
func collectDocumentFrequency(ctx context.Context, texts []string) ([3]map[string]uint32, error) {
	var results [3]map[string]uint32
	var mus [3]sync.Mutex
	for i := range results {
		results[i] = make(map[string]uint32)
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, text := range texts {
		text := text
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			unigrams, bigrams, trigrams := textnorm.ToWords(text)
			grams := [3][]string{unigrams, bigrams, trigrams}

			for i, gram := range grams {
				unique := uniqueStrings(gram)
				mus[i].Lock()
				for word := range unique {
					results[i][word]++
				}
				mus[i].Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func uniqueStrings(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range in {
		out[s] = struct{}{}
	}
	return out
}
