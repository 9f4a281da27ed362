// Package fuzzy suggests team/league names mentioned in a free-text
// query via Jaro-Winkler similarity over normalised n-gram fragments.
package fuzzy

import "github.com/emielsteerneman/tdpsearch/internal/textnorm"

// Threshold is the minimum Jaro-Winkler score, over any query-fragment x
// candidate-fragment pair, for a candidate to be suggested.
const Threshold = 0.9

// Suggest scores every candidate against query and returns the ones whose
// best fragment-pair Jaro-Winkler score exceeds Threshold, sorted by that
// score descending.
//
// Both query and each candidate are expanded into their unigram/bigram/
// trigram fragments; a candidate also gets an alphanumeric-collapsed
// fragment appended so e.g. "erforce" matches "Er-Force". The candidate's
// score is the maximum similarity over all (query fragment, candidate
// fragment) pairs.
func Suggest(candidates []string, query string) []string {
	queryFragments := allFragments(query, false)

	results := make([]scored, 0, len(candidates))

	for _, candidate := range candidates {
		candidateFragments := allFragments(candidate, true)

		best := 0.0
		for _, q := range queryFragments {
			for _, c := range candidateFragments {
				if s := jaroWinkler(c, q); s > best {
					best = s
				}
			}
		}
		results = append(results, scored{name: candidate, score: best})
	}

	insertionSortDesc(results)

	out := make([]string, 0, len(results))
	for _, r := range results {
		if r.score > Threshold {
			out = append(out, r.name)
		}
	}
	return out
}

func allFragments(text string, withAlphanumeric bool) []string {
	uni, bi, tri := textnorm.ToWords(text)
	fragments := make([]string, 0, len(uni)+len(bi)+len(tri)+1)
	fragments = append(fragments, uni...)
	fragments = append(fragments, bi...)
	fragments = append(fragments, tri...)

	if withAlphanumeric {
		if stripped := textnorm.AlphanumericCollapse(text); stripped != "" {
			fragments = append(fragments, stripped)
		}
	}
	return fragments
}

type scored struct {
	name  string
	score float64
}

func insertionSortDesc(s []scored) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j].score > s[j-1].score; j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

// jaroWinkler computes the Jaro-Winkler similarity between a and b, both
// already lowercased by the caller's normalisation step.
func jaroWinkler(a, b string) float64 {
	jaro := jaroSimilarity(a, b)
	if jaro == 0 {
		return 0
	}

	const (
		prefixScale    = 0.1
		maxPrefixBoost = 4
	)
	prefixLen := 0
	for prefixLen < len(a) && prefixLen < len(b) && prefixLen < maxPrefixBoost && a[prefixLen] == b[prefixLen] {
		prefixLen++
	}

	return jaro + float64(prefixLen)*prefixScale*(1-jaro)
}

func jaroSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len(a), len(b)
	if la == 0 || lb == 0 {
		return 0
	}

	matchDistance := max(la, lb)/2 - 1
	if matchDistance < 0 {
		matchDistance = 0
	}

	aMatches := make([]bool, la)
	bMatches := make([]bool, lb)

	matches := 0
	for i := 0; i < la; i++ {
		start := max(0, i-matchDistance)
		end := min(i+matchDistance+1, lb)
		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0
	}

	transpositions := 0
	k := 0
	for i := 0; i < la; i++ {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}
	transpositions /= 2

	m := float64(matches)
	return (m/float64(la) + m/float64(lb) + (m-float64(transpositions))/m) / 3
}
