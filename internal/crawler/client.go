// internal/crawler/client.go
package crawler

import (
	"context"
	"fmt"
	"strings"

	commonerrors "adserve-core/internal/common/errors"
	httpclient "adserve-core/internal/common/http"
)

// ActorClient talks to the external crawl actor's REST API: submit a run,
// poll its status, fetch its dataset.
type ActorClient struct {
	cfg        Config
	httpClient *httpclient.Client
}

func NewActorClient(cfg Config) *ActorClient {
	return &ActorClient{
		cfg:        cfg,
		httpClient: httpclient.NewClient(cfg.RequestTimeout),
	}
}

// SubmitJob starts a crawl run for url and returns the run id.
func (c *ActorClient) SubmitJob(ctx context.Context, url string) (string, error) {
	endpoint := fmt.Sprintf("%s/acts/%s/runs", strings.TrimSuffix(c.cfg.BaseURL, "/"), c.cfg.ActorID)

	input := submitRunRequest{
		StartURLs:           []startURL{{URL: url}},
		MaxRequestsPerCrawl: 1,
		MaxConcurrency:      1,
	}

	var resp submitRunResponse
	err := c.httpClient.PostJSON(ctx, endpoint, c.authHeaders(), input, &resp)
	if err != nil {
		return "", commonerrors.NewCrawlSubmitFailedError(err)
	}
	if resp.Data.ID == "" {
		return "", commonerrors.NewCrawlSubmitFailedError(fmt.Errorf("actor returned no run id"))
	}

	return resp.Data.ID, nil
}

// GetRunStatus fetches the current state of a run.
func (c *ActorClient) GetRunStatus(ctx context.Context, runID string) (*runData, error) {
	endpoint := fmt.Sprintf("%s/actor-runs/%s", strings.TrimSuffix(c.cfg.BaseURL, "/"), runID)

	var resp runStatusResponse
	if err := c.httpClient.GetJSON(ctx, endpoint, c.authHeaders(), &resp); err != nil {
		return nil, commonerrors.NewCrawlPollFailedError(runID, err)
	}

	return &resp.Data, nil
}

// FetchResults downloads the dataset items of a finished run.
func (c *ActorClient) FetchResults(ctx context.Context, runID string) ([]CrawlItem, error) {
	status, err := c.GetRunStatus(ctx, runID)
	if err != nil {
		return nil, err
	}
	if status.DefaultDatasetID == "" {
		return nil, commonerrors.NewCrawlFetchFailedError(runID, fmt.Errorf("run has no dataset"))
	}

	endpoint := fmt.Sprintf("%s/datasets/%s/items", strings.TrimSuffix(c.cfg.BaseURL, "/"), status.DefaultDatasetID)

	var items []CrawlItem
	if err := c.httpClient.GetJSON(ctx, endpoint, c.authHeaders(), &items); err != nil {
		return nil, commonerrors.NewCrawlFetchFailedError(runID, err)
	}

	return items, nil
}

func (c *ActorClient) authHeaders() map[string]string {
	if c.cfg.APIKey == "" {
		return nil
	}
	return map[string]string{
		"Authorization": "Bearer " + c.cfg.APIKey,
	}
}
