// Package matching ranks the product catalog against an enriched page
// description using cosine similarity in the shared embedding space.
package matching

import (
	"sort"

	"adserve-core/internal/catalog"
	"adserve-core/internal/common/logger"
	"adserve-core/internal/embedding"
	"adserve-core/internal/models"
)

// DefaultTopK is the number of matches returned when none is configured.
const DefaultTopK = 3

type Matcher struct {
	embedder embedding.Embedder
	catalog  *catalog.Store
	minScore float64
	logger   logger.Logger
}

func NewMatcher(embedder embedding.Embedder, store *catalog.Store, minScore float64, log logger.Logger) *Matcher {
	return &Matcher{
		embedder: embedder,
		catalog:  store,
		minScore: minScore,
		logger:   log,
	}
}

// Rank scores every active product against the page description and returns
// the top k matches, sorted by descending score with ties broken by catalog
// insertion order. An empty catalog yields an empty list, and fully degraded
// input (no text at all) yields deterministic zero scores, never an error.
func (m *Matcher) Rank(desc *models.PageDescription, k int) []models.MatchResult {
	if k <= 0 {
		k = DefaultTopK
	}

	pageVec := m.embedder.Embed(desc.EmbeddingText())

	results := make([]models.MatchResult, 0, m.catalog.Len())
	for _, product := range m.catalog.Products() {
		if !product.Active {
			continue
		}

		score := embedding.Cosine(pageVec, product.Embedding)
		if score < m.minScore {
			continue
		}

		results = append(results, models.MatchResult{
			Product:    product,
			Score:      score,
			ImageURL:   product.ImageURL,
			LandingURL: product.LandingURL,
		})
	}

	// Stable sort keeps insertion order for equal scores, so repeated
	// requests return identical orderings.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}

	m.logger.Debug("Ranked products", map[string]interface{}{
		"url":     desc.URL,
		"matches": len(results),
	})

	return results
}
