// pkg/registry/schema.go
package registry

// PublisherRegistry is the on-disk publisher roster.
type PublisherRegistry struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Publishers  []Publisher `json:"publishers"`
}

// Publisher describes one site allowed to request ads.
type Publisher struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"displayName"`
	Enabled        bool     `json:"enabled"`
	AllowedDomains []string `json:"allowedDomains,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}
