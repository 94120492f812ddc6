// internal/crawler/orchestrator_test.go
package crawler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adserve-core/internal/common/logger"
	"adserve-core/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// stubActor scripts the actor API: a sequence of statuses followed by a fixed
// dataset, with optional error injection per call.
type stubActor struct {
	submitErr  error
	runID      string
	statuses   []string
	statusErrs []error
	statusIdx  int
	fetchItems []CrawlItem
	fetchErr   error

	submitCalls int
	fetchCalls  int
}

func (s *stubActor) SubmitJob(_ context.Context, _ string) (string, error) {
	s.submitCalls++
	if s.submitErr != nil {
		return "", s.submitErr
	}
	return s.runID, nil
}

func (s *stubActor) GetRunStatus(_ context.Context, _ string) (*runData, error) {
	idx := s.statusIdx
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}
	s.statusIdx++

	if idx < len(s.statusErrs) && s.statusErrs[idx] != nil {
		return nil, s.statusErrs[idx]
	}
	return &runData{ID: s.runID, Status: s.statuses[idx], DefaultDatasetID: "ds-1"}, nil
}

func (s *stubActor) FetchResults(_ context.Context, _ string) ([]CrawlItem, error) {
	s.fetchCalls++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.fetchItems, nil
}

func newTestOrchestrator(t *testing.T, actor actorAPI) *Orchestrator {
	return &Orchestrator{
		client: actor,
		cfg: Config{
			PollInterval: time.Millisecond,
			MaxWait:      250 * time.Millisecond,
		},
		logger: logger.NewTestLogger(t),
	}
}

func crawledItem() CrawlItem {
	return CrawlItem{
		Title:       "Best Headphones of 2026",
		Description: "Our favorite wireless headphones this year.",
		MainContent: "We compared twenty pairs of wireless headphones.",
		Headings:    []string{"Top Picks", "Budget Options"},
		Keywords:    []string{"headphones", "wireless", "audio"},
		Topics:      []string{"audio", "technology"},
	}
}

func enrichRequest() *models.AdRequest {
	return &models.AdRequest{
		PublisherID: "pub_demo",
		URL:         "https://example.com/articles/headphones?ref=mail",
	}
}

// ==========================
// Enrichment Success Tests
// ==========================

func TestOrchestrator_Enrich_Success(t *testing.T) {
	actor := &stubActor{
		runID:      "run-1",
		statuses:   []string{"RUNNING", "RUNNING", StatusSucceeded},
		fetchItems: []CrawlItem{crawledItem()},
	}
	o := newTestOrchestrator(t, actor)

	desc := o.Enrich(context.Background(), enrichRequest())

	require.NotNil(t, desc)
	assert.True(t, desc.Enriched)
	assert.Equal(t, "https://example.com/articles/headphones", desc.URL)
	assert.Equal(t, "Best Headphones of 2026", desc.Title)
	assert.Equal(t, []string{"audio", "technology"}, desc.Topics)
	assert.Equal(t, "run-1", desc.CrawlRunID)
	assert.Equal(t, 1, actor.fetchCalls)
}

func TestOrchestrator_Enrich_LocalSignalsWin(t *testing.T) {
	actor := &stubActor{
		runID:      "run-1",
		statuses:   []string{StatusSucceeded},
		fetchItems: []CrawlItem{crawledItem()},
	}
	o := newTestOrchestrator(t, actor)

	req := enrichRequest()
	req.PageTitle = "Locally Observed Title"
	req.PageHeadings = []string{"Local Heading"}

	desc := o.Enrich(context.Background(), req)

	assert.Equal(t, "Locally Observed Title", desc.Title)
	assert.Equal(t, []string{"Local Heading"}, desc.Headings)
	// Crawl-only fields still come through.
	assert.Equal(t, []string{"headphones", "wireless", "audio"}, desc.Keywords)
}

func TestOrchestrator_Enrich_ContentTruncated(t *testing.T) {
	item := crawledItem()
	long := make([]byte, 5000)
	for i := range long {
		long[i] = 'x'
	}
	item.MainContent = string(long)

	actor := &stubActor{
		runID:      "run-1",
		statuses:   []string{StatusSucceeded},
		fetchItems: []CrawlItem{item},
	}
	o := newTestOrchestrator(t, actor)

	desc := o.Enrich(context.Background(), enrichRequest())

	assert.Len(t, desc.MainContent, 2000)
}

func TestOrchestrator_Enrich_ContentTruncatedOnRuneBoundary(t *testing.T) {
	item := crawledItem()
	item.MainContent = strings.Repeat("日", 2100)

	actor := &stubActor{
		runID:      "run-1",
		statuses:   []string{StatusSucceeded},
		fetchItems: []CrawlItem{item},
	}
	o := newTestOrchestrator(t, actor)

	desc := o.Enrich(context.Background(), enrichRequest())

	assert.True(t, utf8.ValidString(desc.MainContent))
	assert.Equal(t, 2000, utf8.RuneCountInString(desc.MainContent))
}

func TestOrchestrator_Enrich_TransientPollErrorRecovers(t *testing.T) {
	actor := &stubActor{
		runID:      "run-1",
		statuses:   []string{"RUNNING", "RUNNING", StatusSucceeded},
		statusErrs: []error{errors.New("connection reset"), nil, nil},
		fetchItems: []CrawlItem{crawledItem()},
	}
	o := newTestOrchestrator(t, actor)

	desc := o.Enrich(context.Background(), enrichRequest())

	assert.True(t, desc.Enriched)
}

// ==========================
// Degradation Tests
// ==========================

func TestOrchestrator_Enrich_SubmitFailureDegrades(t *testing.T) {
	actor := &stubActor{submitErr: errors.New("actor unavailable")}
	o := newTestOrchestrator(t, actor)

	req := enrichRequest()
	req.PageTitle = "Fallback Title"
	req.PageHeadings = []string{"Fallback Heading"}

	desc := o.Enrich(context.Background(), req)

	require.NotNil(t, desc)
	assert.False(t, desc.Enriched)
	assert.Equal(t, "Fallback Title", desc.Title)
	assert.Equal(t, []string{"Fallback Heading"}, desc.Headings)
	assert.Equal(t, []string{}, desc.Keywords)
	assert.Equal(t, []string{}, desc.Topics)
	assert.Empty(t, desc.CrawlRunID)
}

func TestOrchestrator_Enrich_TerminalFailureDegrades(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "failed run", status: StatusFailed},
		{name: "aborted run", status: StatusAborted},
		{name: "timed out run", status: StatusTimedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := &stubActor{runID: "run-1", statuses: []string{"RUNNING", tt.status}}
			o := newTestOrchestrator(t, actor)

			desc := o.Enrich(context.Background(), enrichRequest())

			assert.False(t, desc.Enriched)
			assert.Zero(t, actor.fetchCalls, "no fetch after a terminal failure")
		})
	}
}

func TestOrchestrator_Enrich_PollTimeoutDegrades(t *testing.T) {
	actor := &stubActor{runID: "run-1", statuses: []string{"RUNNING"}}
	o := newTestOrchestrator(t, actor)
	o.cfg.MaxWait = 20 * time.Millisecond

	desc := o.Enrich(context.Background(), enrichRequest())

	assert.False(t, desc.Enriched)
}

func TestOrchestrator_Enrich_FetchFailureDegrades(t *testing.T) {
	actor := &stubActor{
		runID:    "run-1",
		statuses: []string{StatusSucceeded},
		fetchErr: errors.New("dataset gone"),
	}
	o := newTestOrchestrator(t, actor)

	desc := o.Enrich(context.Background(), enrichRequest())

	assert.False(t, desc.Enriched)
}

func TestOrchestrator_Enrich_EmptyResultsDegrade(t *testing.T) {
	actor := &stubActor{
		runID:      "run-1",
		statuses:   []string{StatusSucceeded},
		fetchItems: []CrawlItem{},
	}
	o := newTestOrchestrator(t, actor)

	desc := o.Enrich(context.Background(), enrichRequest())

	assert.False(t, desc.Enriched)
}

func TestOrchestrator_Enrich_ContextCancellationDegrades(t *testing.T) {
	actor := &stubActor{runID: "run-1", statuses: []string{"RUNNING"}}
	o := newTestOrchestrator(t, actor)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	desc := o.Enrich(ctx, enrichRequest())

	assert.False(t, desc.Enriched)
}

// ==========================
// Visual Style Tests
// ==========================

func TestOrchestrator_Enrich_RequestStyleWinsOverCrawl(t *testing.T) {
	item := crawledItem()
	item.VisualStyles = map[string]interface{}{"theme": "dark", "backgroundColor": "#000000"}

	actor := &stubActor{
		runID:      "run-1",
		statuses:   []string{StatusSucceeded},
		fetchItems: []CrawlItem{item},
	}
	o := newTestOrchestrator(t, actor)

	req := enrichRequest()
	req.VisualStyle = &models.VisualStyle{Theme: "sepia", BackgroundColor: "#f4ecd8"}

	desc := o.Enrich(context.Background(), req)

	assert.Equal(t, "sepia", desc.VisualStyle.Theme)
	assert.Equal(t, "#f4ecd8", desc.VisualStyle.BackgroundColor)
}

func TestOrchestrator_Enrich_CrawlStyleUsedWhenRequestHasNone(t *testing.T) {
	item := crawledItem()
	item.VisualStyles = map[string]interface{}{
		"theme":        "dark",
		"primaryColor": "#ff6600",
		"accentColors": []interface{}{"#111111", "#222222"},
	}

	actor := &stubActor{
		runID:      "run-1",
		statuses:   []string{StatusSucceeded},
		fetchItems: []CrawlItem{item},
	}
	o := newTestOrchestrator(t, actor)

	desc := o.Enrich(context.Background(), enrichRequest())

	assert.Equal(t, "dark", desc.VisualStyle.Theme)
	assert.Equal(t, "#ff6600", desc.VisualStyle.PrimaryColor)
	assert.Equal(t, []string{"#111111", "#222222"}, desc.VisualStyle.AccentColors)
	// Unspecified fields keep their defaults.
	assert.Equal(t, "#ffffff", desc.VisualStyle.BackgroundColor)
}

func TestVisualStyleFromCrawl_EmptyFallsBackToDefault(t *testing.T) {
	style := visualStyleFromCrawl(nil)
	assert.Equal(t, models.DefaultVisualStyle(), style)
}
