// Package ranking scores candidate vectors against a query vector and keeps the top k.
package ranking

import (
	"fmt"
	"math"
	"sort"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/tfidf"
)

// DefaultTopK is the number of matches returned when callers do not choose.
const DefaultTopK = 3

// Ranked is one candidate position in a ranking: its input index and full-precision score.
type Ranked struct {
	Index int
	Score float64
}

// Result is ordered by descending score; ties keep input order.
type Result []Ranked

// Rank computes cosine similarity between query and every candidate, sorts the
// candidates by descending score and returns at most k of them.
func Rank(query tfidf.Vector, candidates []tfidf.Vector, k int) (Result, error) {
	if k < 1 {
		return nil, apperrors.NewInvalidInputError("top_k", fmt.Sprintf("must be at least 1, got %d", k))
	}

	queryNorm := norm(query)
	ranked := make(Result, len(candidates))
	for i, c := range candidates {
		if len(c) != len(query) {
			return nil, apperrors.NewInvalidInputError("candidates",
				fmt.Sprintf("candidate %d has dimension %d, query has %d", i, len(c), len(query)))
		}
		ranked[i] = Ranked{Index: i, Score: cosine(query, c, queryNorm)}
	}

	// Stable so equal scores stay in input order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}

	return ranked, nil
}

// similarity is the cosine of a and b, 0 when either has zero norm.
func similarity(a, b tfidf.Vector) float64 {
	if len(a) != len(b) {
		return 0
	}
	return cosine(a, b, norm(a))
}

func cosine(q, c tfidf.Vector, qNorm float64) float64 {
	cNorm := norm(c)
	if qNorm == 0 || cNorm == 0 {
		return 0
	}

	score := dot(q, c) / (qNorm * cNorm)

	// Floating point can overshoot for identical vectors
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}
	return score
}

func dot(a, b tfidf.Vector) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func norm(v tfidf.Vector) float64 {
	return math.Sqrt(dot(v, v))
}

// Round2 rounds a score to two decimals for display only.
func Round2(score float64) float64 {
	return math.Round(score*100) / 100
}
