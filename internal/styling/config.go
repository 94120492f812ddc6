// internal/styling/config.go
package styling

import (
	"time"

	"adserve-core/internal/common/config"
)

// Config holds the image styling service settings.
type Config struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// LoadConfig extracts styling settings from the global configuration.
func LoadConfig(cfg *config.Config) Config {
	return Config{
		Enabled: cfg.Styling.Enabled,
		BaseURL: cfg.Styling.BaseURL,
		APIKey:  cfg.Styling.APIKey,
		Timeout: config.GetDuration(cfg.Styling.Timeout),
	}
}
