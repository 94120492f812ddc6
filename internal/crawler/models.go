// internal/crawler/models.go
package crawler

// submitRunRequest is the actor input for a single-page crawl.
type submitRunRequest struct {
	StartURLs           []startURL `json:"startUrls"`
	MaxRequestsPerCrawl int        `json:"maxRequestsPerCrawl"`
	MaxConcurrency      int        `json:"maxConcurrency"`
}

type startURL struct {
	URL string `json:"url"`
}

type submitRunResponse struct {
	Data runData `json:"data"`
}

type runStatusResponse struct {
	Data runData `json:"data"`
}

// runData is the actor's view of one run.
type runData struct {
	ID               string `json:"id"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
}

// Terminal run statuses reported by the actor.
const (
	StatusSucceeded = "SUCCEEDED"
	StatusFailed    = "FAILED"
	StatusAborted   = "ABORTED"
	StatusTimedOut  = "TIMED-OUT"
)

// CrawlItem is one extracted page from the actor's dataset.
type CrawlItem struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	MainContent  string                 `json:"mainContent"`
	Headings     []string               `json:"headings"`
	Keywords     []string               `json:"keywords"`
	Topics       []string               `json:"topics"`
	VisualStyles map[string]interface{} `json:"visualStyles"`
	SystemInfo   map[string]interface{} `json:"systemInfo"`
	Author       string                 `json:"author"`
}

func isTerminalFailure(status string) bool {
	switch status {
	case StatusFailed, StatusAborted, StatusTimedOut:
		return true
	}
	return false
}
