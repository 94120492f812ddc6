// internal/crawler/orchestrator.go
package crawler

import (
	"context"
	"time"

	"adserve-core/internal/common/logger"
	"adserve-core/internal/common/metrics"
	"adserve-core/internal/models"
)

// actorAPI is the slice of ActorClient the orchestrator needs; tests swap in
// a stub.
type actorAPI interface {
	SubmitJob(ctx context.Context, url string) (string, error)
	GetRunStatus(ctx context.Context, runID string) (*runData, error)
	FetchResults(ctx context.Context, runID string) ([]CrawlItem, error)
}

// maxContentRunes caps the crawl content carried into a PageDescription.
const maxContentRunes = 2000

// outcomeKind tags the result of one enrichment attempt.
type outcomeKind int

const (
	outcomeEnriched outcomeKind = iota
	outcomeDegraded
)

type crawlOutcome struct {
	kind   outcomeKind
	item   *CrawlItem
	runID  string
	status string
}

// Orchestrator runs the submit/poll/fetch cycle for one URL and maps the
// result into a PageDescription. Enrichment failure is never a hard failure:
// the pipeline must still rank products with whatever local signals exist.
type Orchestrator struct {
	client actorAPI
	cfg    Config
	logger logger.Logger
}

func NewOrchestrator(client *ActorClient, cfg Config, log logger.Logger) *Orchestrator {
	return &Orchestrator{client: client, cfg: cfg, logger: log}
}

// Enrich obtains a PageDescription for the request's URL. On any crawl
// failure or timeout it returns a degraded description built from the
// request's local signals.
func (o *Orchestrator) Enrich(ctx context.Context, req *models.AdRequest) *models.PageDescription {
	start := time.Now()
	outcome := o.crawl(ctx, req.URL)
	metrics.CrawlDuration.Observe(time.Since(start).Seconds())

	if outcome.kind == outcomeDegraded {
		metrics.CrawlJobsTotal.WithLabelValues(outcome.status).Inc()
		o.logger.Warn("Crawl degraded, serving unenriched context", map[string]interface{}{
			"url":    req.URL,
			"runId":  outcome.runID,
			"status": outcome.status,
		})
		return degradedDescription(req)
	}

	metrics.CrawlJobsTotal.WithLabelValues(StatusSucceeded).Inc()
	return mergeDescription(req, outcome.item, outcome.runID)
}

func (o *Orchestrator) crawl(ctx context.Context, url string) crawlOutcome {
	runID, err := o.client.SubmitJob(ctx, url)
	if err != nil {
		return crawlOutcome{kind: outcomeDegraded, status: "submit_failed"}
	}

	deadline := time.NewTimer(o.cfg.MaxWait)
	defer deadline.Stop()
	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return crawlOutcome{kind: outcomeDegraded, runID: runID, status: "canceled"}
		case <-deadline.C:
			return crawlOutcome{kind: outcomeDegraded, runID: runID, status: "poll_timeout"}
		case <-ticker.C:
		}

		status, err := o.client.GetRunStatus(ctx, runID)
		if err != nil {
			// Transient poll errors keep the loop alive until the deadline.
			continue
		}

		if isTerminalFailure(status.Status) {
			return crawlOutcome{kind: outcomeDegraded, runID: runID, status: status.Status}
		}
		if status.Status != StatusSucceeded {
			continue
		}

		items, err := o.client.FetchResults(ctx, runID)
		if err != nil {
			return crawlOutcome{kind: outcomeDegraded, runID: runID, status: "fetch_failed"}
		}
		if len(items) == 0 {
			return crawlOutcome{kind: outcomeDegraded, runID: runID, status: "empty_results"}
		}

		return crawlOutcome{kind: outcomeEnriched, item: &items[0], runID: runID}
	}
}

// degradedDescription builds a usable PageDescription from local signals only.
func degradedDescription(req *models.AdRequest) *models.PageDescription {
	return &models.PageDescription{
		URL:         models.NormalizeURL(req.URL),
		Title:       req.PageTitle,
		Headings:    req.PageHeadings,
		Keywords:    []string{},
		Topics:      []string{},
		VisualStyle: requestVisualStyle(req),
		Enriched:    false,
		CapturedAt:  time.Now().UTC(),
	}
}

// mergeDescription combines crawl output with the request's local signals.
// Locally observed title and headings win over crawl inference.
func mergeDescription(req *models.AdRequest, item *CrawlItem, runID string) *models.PageDescription {
	title := item.Title
	if req.PageTitle != "" {
		title = req.PageTitle
	}
	headings := item.Headings
	if len(req.PageHeadings) > 0 {
		headings = req.PageHeadings
	}

	content := models.TruncateRunes(item.MainContent, maxContentRunes)

	style := requestVisualStyle(req)
	if req.VisualStyle == nil {
		style = visualStyleFromCrawl(item.VisualStyles)
	}

	return &models.PageDescription{
		URL:         models.NormalizeURL(req.URL),
		Title:       title,
		Description: item.Description,
		Headings:    headings,
		Keywords:    item.Keywords,
		Topics:      item.Topics,
		MainContent: content,
		VisualStyle: style,
		Enriched:    true,
		CrawlRunID:  runID,
		CapturedAt:  time.Now().UTC(),
	}
}

func requestVisualStyle(req *models.AdRequest) models.VisualStyle {
	if req.VisualStyle != nil {
		return *req.VisualStyle
	}
	return models.DefaultVisualStyle()
}

// visualStyleFromCrawl maps the actor's loose visualStyles object onto the
// typed descriptor, falling back to defaults per missing field.
func visualStyleFromCrawl(raw map[string]interface{}) models.VisualStyle {
	style := models.DefaultVisualStyle()
	if len(raw) == 0 {
		return style
	}

	if v := stringField(raw, "theme"); v != "" {
		style.Theme = v
	}
	if v := stringField(raw, "backgroundColor"); v != "" {
		style.BackgroundColor = v
	}
	if v := stringField(raw, "textColor"); v != "" {
		style.TextColor = v
	}
	if v := stringField(raw, "primaryColor"); v != "" {
		style.PrimaryColor = v
	}
	if v := stringField(raw, "fontFamily"); v != "" {
		style.FontFamily = v
	}
	if v := stringField(raw, "fontSize"); v != "" {
		style.FontSize = v
	}
	if accents, ok := raw["accentColors"].([]interface{}); ok {
		for _, a := range accents {
			if s, ok := a.(string); ok {
				style.AccentColors = append(style.AccentColors, s)
			}
		}
	}

	return style
}

func stringField(raw map[string]interface{}, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
