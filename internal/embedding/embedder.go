// Package embedding provides the shared text-to-vector function used for both
// products and page descriptions. Scores are only meaningful when both sides
// go through the same embedder instance.
package embedding

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDims is the vector dimensionality used when none is configured.
const DefaultDims = 256

// Embedder turns free text into a fixed-length vector.
type Embedder interface {
	Embed(text string) []float64
	Dims() int
}

// HashingEmbedder is a deterministic feature-hashing embedder. Tokens are
// hashed into a fixed-dim vector with a sign bit, then L2-normalized. The same
// input always produces the same vector, which keeps repeated requests and
// tests reproducible.
type HashingEmbedder struct {
	dims int
}

func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultDims
	}
	return &HashingEmbedder{dims: dims}
}

func (e *HashingEmbedder) Dims() int {
	return e.dims
}

// Embed tokenizes text and folds each token into the vector. Empty text
// yields a zero vector, which downstream cosine scoring maps to score 0.
func (e *HashingEmbedder) Embed(text string) []float64 {
	vec := make([]float64, e.dims)

	tokens := tokenize(text)
	if len(tokens) == 0 {
		return vec
	}

	for _, tok := range tokens {
		h := fnv.New64a()
		h.Write([]byte(tok))
		sum := h.Sum64()

		idx := int(sum % uint64(e.dims))
		// Use a high-order bit as the sign so collisions partially cancel
		// instead of always accumulating.
		if sum&(1<<63) != 0 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}

	normalize(vec)
	return vec
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// Cosine computes cosine similarity clamped to [0,1]. A zero-norm vector on
// either side yields 0, never an error.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, score))
}
