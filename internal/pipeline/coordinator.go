// Package pipeline sequences one inbound ad request through cache lookup,
// enrichment, ranking, styling and response assembly.
package pipeline

import (
	"context"
	"errors"
	"time"

	"adserve-core/internal/common/logger"
	"adserve-core/internal/common/metrics"
	"adserve-core/internal/common/observability"
	"adserve-core/internal/models"
	"adserve-core/internal/pagecontext"

	"github.com/google/uuid"
)

// Enricher produces a PageDescription for a request, degraded if need be.
type Enricher interface {
	Enrich(ctx context.Context, req *models.AdRequest) *models.PageDescription
}

// Ranker scores the catalog against a page description.
type Ranker interface {
	Rank(desc *models.PageDescription, k int) []models.MatchResult
}

// Styler resolves the displayed image per match, best-effort.
type Styler interface {
	Style(ctx context.Context, matches []models.MatchResult, desc *models.PageDescription) []models.MatchResult
}

// ImpressionRecorder persists one analytics row per served request.
type ImpressionRecorder interface {
	Record(ctx context.Context, imp *models.Impression) error
}

// Coordinator is the façade invoked by the HTTP boundary.
type Coordinator struct {
	cache    pagecontext.Cache
	enricher Enricher
	ranker   Ranker
	styler   Styler
	recorder ImpressionRecorder // nil when analytics is disabled
	topK     int
	obs      *observability.Observability
	logger   logger.Logger
}

func NewCoordinator(
	cache pagecontext.Cache,
	enricher Enricher,
	ranker Ranker,
	styler Styler,
	recorder ImpressionRecorder,
	topK int,
	obs *observability.Observability,
	log logger.Logger,
) *Coordinator {
	return &Coordinator{
		cache:    cache,
		enricher: enricher,
		ranker:   ranker,
		styler:   styler,
		recorder: recorder,
		topK:     topK,
		obs:      obs,
		logger:   log,
	}
}

// Handle serves one request. A crawl failure degrades the context but never
// aborts the request; only malformed input (rejected before this point) or an
// empty catalog are request-level failures.
func (c *Coordinator) Handle(ctx context.Context, req *models.AdRequest) *models.AdResponse {
	start := time.Now()
	requestID := uuid.NewString()

	metrics.ActiveRequests.Inc()
	defer metrics.ActiveRequests.Dec()

	log := c.logger.WithFields(map[string]interface{}{
		"requestId":   requestID,
		"publisherId": req.PublisherID,
		"url":         req.URL,
	})

	key := models.CacheKey(req.URL, req.Persona)

	desc, cacheState := c.lookupContext(ctx, key, log)
	if desc == nil {
		desc = c.enricher.Enrich(ctx, req)
		// Degraded descriptions are rebuilt per request instead of being
		// pinned in the cache for the full TTL; the next request gets a
		// fresh crawl attempt.
		if desc.Enriched {
			if err := c.cache.Put(ctx, key, desc); err != nil {
				log.Warn("Context cache write failed", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}

	matches := c.ranker.Rank(desc, c.topK)
	matches = c.styler.Style(ctx, matches, desc)

	resp := models.NewAdResponse(requestID, desc, matches)

	c.recordImpression(req, resp)

	outcome := "enriched"
	if !desc.Enriched {
		outcome = "degraded"
	}
	metrics.AdRequestsTotal.WithLabelValues(outcome).Inc()
	metrics.AdRequestDuration.WithLabelValues(cacheState).Observe(time.Since(start).Seconds())
	c.obs.RecordRequestProcessed(ctx, outcome)
	c.obs.RecordRequestDuration(ctx, time.Since(start), outcome)

	log.Info("Served ad request", map[string]interface{}{
		"cache":    cacheState,
		"enriched": desc.Enriched,
		"matches":  len(resp.MatchedProducts),
		"duration": time.Since(start).String(),
	})

	return resp
}

func (c *Coordinator) lookupContext(ctx context.Context, key string, log logger.Logger) (*models.PageDescription, string) {
	desc, err := c.cache.Get(ctx, key)
	if err == nil {
		metrics.PageContextCacheEvents.WithLabelValues("hit").Inc()
		return desc, "hit"
	}

	if !errors.Is(err, pagecontext.ErrCacheMiss) {
		// A broken cache backend degrades to a miss.
		log.Warn("Context cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}

	metrics.PageContextCacheEvents.WithLabelValues("miss").Inc()
	return nil, "miss"
}

// recordImpression fires the analytics write without blocking the response.
func (c *Coordinator) recordImpression(req *models.AdRequest, resp *models.AdResponse) {
	if c.recorder == nil {
		return
	}

	imp := &models.Impression{
		RequestID:      resp.RequestID,
		PublisherID:    req.PublisherID,
		URL:            models.NormalizeURL(req.URL),
		SlotID:         req.SlotID,
		DeviceType:     req.DeviceType,
		ViewportWidth:  req.ViewportWidth,
		ViewportHeight: req.ViewportHeight,
		MatchCount:     len(resp.MatchedProducts),
		Enriched:       resp.Context.HasEnriched,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = c.recorder.Record(ctx, imp)
	}()
}
