package vectorstore

import (
	"fmt"
	"math"
	"sort"
)

// CosineSimilarity returns the cosine similarity of a and b, or 0 if either has zero magnitude.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

type candidate struct {
	id   string
	vec  []float32
	meta map[string]any
}

// rank scores candidates against query and returns the k best matching the filters.
// Ties keep candidate order.
func rank(query []float32, candidates []candidate, k int, filters map[string]any) []SearchResult {
	results := make([]SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if !MatchFilters(c.meta, filters) {
			continue
		}
		results = append(results, SearchResult{
			PointID: c.id,
			Score:   CosineSimilarity(query, c.vec),
			Meta:    c.meta,
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// MatchFilters reports whether meta satisfies every filter.
// A string filter value requires equality; a []string value requires membership.
func MatchFilters(meta map[string]any, filters map[string]any) bool {
	for key, want := range filters {
		raw, ok := meta[key]
		if !ok {
			return false
		}
		got := fmt.Sprint(raw)
		switch w := want.(type) {
		case []string:
			found := false
			for _, v := range w {
				if v == got {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			if fmt.Sprint(w) != got {
				return false
			}
		}
	}
	return true
}
