// internal/crawler/config.go
package crawler

import (
	"time"

	"adserve-core/internal/common/config"
)

// Config holds the crawl actor settings.
type Config struct {
	BaseURL        string
	APIKey         string
	ActorID        string
	PollInterval   time.Duration
	MaxWait        time.Duration
	RequestTimeout time.Duration
}

// LoadConfig extracts crawler settings from the global configuration.
func LoadConfig(cfg *config.Config) Config {
	return Config{
		BaseURL:        cfg.Crawler.BaseURL,
		APIKey:         cfg.Crawler.APIKey,
		ActorID:        cfg.Crawler.ActorID,
		PollInterval:   config.GetDuration(cfg.Crawler.PollInterval),
		MaxWait:        config.GetDuration(cfg.Crawler.MaxWait),
		RequestTimeout: config.GetDuration(cfg.Crawler.RequestTimeout),
	}
}
