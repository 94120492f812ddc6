// internal/models/ad.go
package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Persona holds optional contextual signals supplied by the hosting page.
// They scope cache entries only; matching never reads them.
type Persona struct {
	TimeOfDay   string `json:"time_of_day,omitempty"`
	Location    string `json:"location,omitempty"`
	Weather     string `json:"weather,omitempty"`
	Temperature string `json:"temperature,omitempty"`
	OS          string `json:"os,omitempty"`
	DeviceType  string `json:"device_type,omitempty"`
}

// Canonical returns a stable serialization used in cache keys. url.Values
// sorts the keys and escapes each value, so equal personas always produce
// equal strings and a "&" or "=" inside a value cannot collide with the
// pair separators.
func (p *Persona) Canonical() string {
	pairs := url.Values{
		"time_of_day": {p.TimeOfDay},
		"location":    {p.Location},
		"weather":     {p.Weather},
		"temperature": {p.Temperature},
		"os":          {p.OS},
		"device_type": {p.DeviceType},
	}
	return pairs.Encode()
}

// AdRequest is the inbound request from the browser SDK.
type AdRequest struct {
	PublisherID string `json:"publisher_id"`
	URL         string `json:"url"`

	SlotID     string `json:"slot_id"`
	SlotWidth  *int   `json:"slot_width,omitempty"`
	SlotHeight *int   `json:"slot_height,omitempty"`

	// Locally observed page signals; they take precedence over crawl output.
	PageTitle    string   `json:"page_title,omitempty"`
	PageHeadings []string `json:"page_headings,omitempty"`

	VisualStyle *VisualStyle `json:"visual_style,omitempty"`
	Persona     *Persona     `json:"persona,omitempty"`

	// Analytics only, never used for matching.
	DeviceType     string `json:"device_type,omitempty"`
	ViewportWidth  *int   `json:"viewport_width,omitempty"`
	ViewportHeight *int   `json:"viewport_height,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
}

// NormalizeURL reduces a URL to scheme://host/path with the fragment and query
// dropped and any trailing slash trimmed (except a bare root path).
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	normalized := fmt.Sprintf("%s://%s%s", parsed.Scheme, parsed.Host, parsed.Path)
	if strings.HasSuffix(normalized, "/") && len(parsed.Path) > 1 {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized
}

// CacheKey derives the page-context cache key for a URL plus optional persona.
// A nil persona yields the bare URL; a non-nil persona always appends a
// persona suffix, so absent and present-but-empty personas never collide.
func CacheKey(rawURL string, persona *Persona) string {
	normalized := NormalizeURL(rawURL)
	if persona == nil {
		return normalized
	}
	return fmt.Sprintf("%s|persona:%s", normalized, persona.Canonical())
}
