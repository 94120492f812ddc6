// internal/styling/orchestrator.go
package styling

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sync"

	"adserve-core/internal/common/logger"
	"adserve-core/internal/common/metrics"
	"adserve-core/internal/models"
)

// restyler is the slice of RestyleClient the orchestrator needs; tests swap
// in a stub.
type restyler interface {
	Restyle(ctx context.Context, imageURL, prompt string) (string, error)
}

// styleOutcome tags the result of one restyle attempt.
type styleOutcome struct {
	styled bool
	url    string
}

// Orchestrator fans restyle calls out per match, best-effort. One product's
// failure never affects its siblings; a failed or timed-out call keeps the
// original image. Results preserve input order regardless of completion
// order.
type Orchestrator struct {
	client  restyler
	cfg     Config
	logger  logger.Logger
	mu      sync.Mutex
	results map[string]string // md5(imageURL::prompt) -> hosted URL
}

func NewOrchestrator(client *RestyleClient, cfg Config, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		client:  client,
		cfg:     cfg,
		logger:  log,
		results: make(map[string]string),
	}
}

// Style resolves the displayed image for each match. Calls are issued
// concurrently with a per-call timeout; the method returns once every call
// has resolved or timed out.
func (o *Orchestrator) Style(ctx context.Context, matches []models.MatchResult, desc *models.PageDescription) []models.MatchResult {
	if !o.cfg.Enabled || len(matches) == 0 {
		return matches
	}

	outcomes := make([]styleOutcome, len(matches))
	var wg sync.WaitGroup

	for i := range matches {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			outcomes[idx] = o.styleOne(ctx, &matches[idx], desc)
		}(i)
	}
	wg.Wait()

	for i := range matches {
		if outcomes[i].styled {
			matches[i].EditedImageURL = outcomes[i].url
		}
	}

	return matches
}

func (o *Orchestrator) styleOne(ctx context.Context, match *models.MatchResult, desc *models.PageDescription) styleOutcome {
	prompt := BuildPrompt(desc, match.Product.Name)
	key := cacheKey(match.ImageURL, prompt)

	o.mu.Lock()
	cached, ok := o.results[key]
	o.mu.Unlock()
	if ok {
		metrics.StylingCallsTotal.WithLabelValues("cached").Inc()
		return styleOutcome{styled: true, url: cached}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.cfg.Timeout)
	defer cancel()

	url, err := o.client.Restyle(callCtx, match.ImageURL, prompt)
	if err != nil {
		metrics.StylingCallsTotal.WithLabelValues("failed").Inc()
		o.logger.Warn("Image styling failed, keeping original image", map[string]interface{}{
			"productId": match.Product.ID,
			"imageUrl":  match.ImageURL,
			"error":     err.Error(),
		})
		return styleOutcome{}
	}

	o.mu.Lock()
	o.results[key] = url
	o.mu.Unlock()

	metrics.StylingCallsTotal.WithLabelValues("styled").Inc()
	return styleOutcome{styled: true, url: url}
}

// cacheKey dedupes repeated restyles of the same image with the same prompt.
func cacheKey(imageURL, prompt string) string {
	sum := md5.Sum([]byte(imageURL + "::" + prompt))
	return hex.EncodeToString(sum[:])
}
