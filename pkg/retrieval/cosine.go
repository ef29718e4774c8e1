// Package retrieval implements the scoring and ranking primitives behind
// hybrid search: cosine similarity, full-scan nearest neighbor ranking,
// lexical overlap scoring and weighted score fusion.
package retrieval

import "math"

// Cosine returns dot(a,b) / (|a| * |b|). It returns 0 when the vectors
// differ in length or either has zero norm.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
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

// NormalizeCosine maps a raw similarity in [-1,1] to [0,1]. Out of range
// input is clamped first.
func NormalizeCosine(sim float64) float64 {
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return (sim + 1) / 2
}
