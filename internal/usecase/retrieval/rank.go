package retrieval

import (
	"math"
	"sort"
	"strings"

	"github.com/decklens/decklens/internal/domain/chunk"
)

// fallbackKeywords is the fixed scoring vocabulary for keyword mode. Score is
// the number of distinct keywords present at least once, not total hits.
var fallbackKeywords = []string{
	"company", "market", "traction", "team", "funding",
	"revenue", "customers", "growth", "business", "strategy", "competitive",
}

// CosineSimilarity returns dot(a,b)/(|a||b|) in [-1,1], or 0 when either
// norm is zero. Degraded zero vectors therefore never outrank real matches.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// keywordScore counts distinct fallback keywords present in text,
// case-insensitive.
func keywordScore(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, kw := range fallbackKeywords {
		if strings.Contains(lower, kw) {
			score++
		}
	}
	return score
}

// topK sorts scored chunks descending by score, ties broken by original chunk
// order (stable), and keeps the first k.
func topK(scored []chunk.Scored, k int) []chunk.Scored {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
