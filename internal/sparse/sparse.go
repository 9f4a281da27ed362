// Package sparse builds sparse term-weight vectors against an IDF lexicon.
package sparse

import (
	"github.com/emielsteerneman/tdpsearch/internal/idf"
	"github.com/emielsteerneman/tdpsearch/internal/textnorm"
)

// Vector maps a lexicon term id to its accumulated weight within one text.
type Vector map[uint32]float32

// Embed builds the sparse representation of text against lex: for every
// unigram/bigram/trigram fragment of text that exists in the lexicon, its
// weighted IDF is accumulated onto that term's id.
func Embed(text string, lex idf.Lexicon) Vector {
	unigrams, bigrams, trigrams := textnorm.ToWords(text)

	v := make(Vector)
	accumulate(v, unigrams, lex)
	accumulate(v, bigrams, lex)
	accumulate(v, trigrams, lex)
	return v
}

func accumulate(v Vector, words []string, lex idf.Lexicon) {
	for _, w := range words {
		term, ok := lex[w]
		if !ok {
			continue
		}
		v[term.ID] += term.WeightedIDF
	}
}
