// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

func LoadRegistry(path string) (*PublisherRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg PublisherRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Lookup returns the publisher with the given id, or nil if unknown.
func (r *PublisherRegistry) Lookup(id string) *Publisher {
	for i := range r.Publishers {
		if r.Publishers[i].ID == id {
			return &r.Publishers[i]
		}
	}
	return nil
}

// Validate rejects registries with duplicate or empty publisher ids.
func (r *PublisherRegistry) Validate() error {
	seen := make(map[string]bool, len(r.Publishers))
	for _, p := range r.Publishers {
		if p.ID == "" {
			return fmt.Errorf("publisher with empty id")
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate publisher id: %s", p.ID)
		}
		seen[p.ID] = true
	}
	return nil
}
