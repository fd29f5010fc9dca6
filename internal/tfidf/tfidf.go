// Package tfidf builds a request-scoped TF-IDF vector space over a query and its candidates.
package tfidf

import (
	"math"
	"sort"

	apperrors "alfredoptarigan/resume-matcher/internal/errors"
	"alfredoptarigan/resume-matcher/internal/tokenizer"
)

// Vector is a dense term-weight vector over a Space vocabulary.
type Vector []float64

// Space is the joint vocabulary built from one query and its candidates.
// Vectors produced from a Space are raw TF-IDF weights; they are not
// L2-normalized here, the ranker normalizes at similarity time.
type Space struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	documents  int
}

// Vectorizer turns a query and candidate texts into vectors of a shared Space.
type Vectorizer struct {
	tokenizer *tokenizer.Tokenizer
}

// NewVectorizer creates a Vectorizer; a nil tokenizer falls back to the English default.
func NewVectorizer(tok *tokenizer.Tokenizer) *Vectorizer {
	if tok == nil {
		tok = tokenizer.NewEnglish()
	}
	return &Vectorizer{tokenizer: tok}
}

// Vectorize builds the joint space from the query and every candidate, then returns
// one vector for the query and one per candidate, in input order.
// It fails with EmptyVocabularyError when no text contributes a single term.
func (v *Vectorizer) Vectorize(query string, candidates []string) (Vector, []Vector, error) {
	docs := make([][]string, 0, len(candidates)+1)
	docs = append(docs, v.tokenizer.Tokenize(query))
	for _, text := range candidates {
		docs = append(docs, v.tokenizer.Tokenize(text))
	}

	space, err := build(docs)
	if err != nil {
		return nil, nil, err
	}

	queryVec := space.weigh(docs[0])
	candidateVecs := make([]Vector, len(candidates))
	for i := range candidates {
		candidateVecs[i] = space.weigh(docs[i+1])
	}

	return queryVec, candidateVecs, nil
}

// fit builds a Space without producing vectors.
func (v *Vectorizer) fit(texts []string) (*Space, error) {
	docs := make([][]string, len(texts))
	for i, text := range texts {
		docs[i] = v.tokenizer.Tokenize(text)
	}
	return build(docs)
}

func build(docs [][]string) (*Space, error) {
	// Document frequencies
	df := make(map[string]int)
	for _, tokens := range docs {
		seen := make(map[string]struct{}, len(tokens))
		for _, tok := range tokens {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	if len(df) == 0 {
		return nil, apperrors.NewEmptyVocabularyError(len(docs))
	}

	// Stable ordering for vector dimensions
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	space := &Space{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
		documents:  len(docs),
	}

	n := float64(len(docs))
	for i, term := range terms {
		space.vocabulary[term] = i
		// Smoothed IDF
		space.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}

	return space, nil
}

// weigh maps tokens to raw count times idf; tokens outside the vocabulary are ignored.
func (s *Space) weigh(tokens []string) Vector {
	vec := make(Vector, len(s.terms))
	for _, tok := range tokens {
		if idx, ok := s.vocabulary[tok]; ok {
			vec[idx]++
		}
	}
	for i, count := range vec {
		if count > 0 {
			vec[i] = count * s.idf[i]
		}
	}
	return vec
}
