// internal/models/product.go
package models

// Product is a catalog entry. Immutable after load; the catalog is rebuilt
// wholesale on restart, never mutated at request time.
type Product struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"image_url"`
	LandingURL  string   `json:"landing_url"`
	Active      bool     `json:"active"`

	// Precomputed at load time from name + price tier + description.
	Embedding []float64 `json:"-"`
}

// PriceTier buckets the price into the phrasing used for embedding text.
func (p *Product) PriceTier() string {
	if p.Price == nil {
		return ""
	}
	switch {
	case *p.Price > 100:
		return "luxury"
	case *p.Price > 30:
		return "mid-range"
	default:
		return "budget"
	}
}
