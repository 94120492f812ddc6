// internal/models/response.go
package models

import "time"

// PageContextInfo is the context block echoed back to the SDK.
type PageContextInfo struct {
	URL         string   `json:"url"`
	Title       string   `json:"title,omitempty"`
	Headings    []string `json:"headings"`
	Keywords    []string `json:"keywords"`
	Topics      []string `json:"topics"`
	HasEnriched bool     `json:"has_enriched"`
}

// MatchedProduct is one ranked product in the response payload.
type MatchedProduct struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          *float64 `json:"price"`
	Currency       string   `json:"currency"`
	ImageURL       string   `json:"image_url"`
	EditedImageURL string   `json:"edited_image_url,omitempty"`
	LandingURL     string   `json:"landing_url"`
	MatchScore     float64  `json:"match_score"`
}

// AdResponse is the full payload returned to the SDK.
type AdResponse struct {
	Success         bool             `json:"success"`
	RequestID       string           `json:"request_id"`
	Context         PageContextInfo  `json:"context"`
	MatchedProducts []MatchedProduct `json:"matched_products"`
	Timestamp       time.Time        `json:"timestamp"`
}

// NewAdResponse assembles the response from the enriched description and the
// styled matches. MatchedProducts is always non-nil so the SDK sees [].
func NewAdResponse(requestID string, desc *PageDescription, matches []MatchResult) *AdResponse {
	products := make([]MatchedProduct, 0, len(matches))
	for _, m := range matches {
		products = append(products, MatchedProduct{
			ID:             m.Product.ID,
			Name:           m.Product.Name,
			Description:    m.Product.Description,
			Price:          m.Product.Price,
			Currency:       m.Product.Currency,
			ImageURL:       m.ImageURL,
			EditedImageURL: m.EditedImageURL,
			LandingURL:     m.LandingURL,
			MatchScore:     m.Score,
		})
	}

	return &AdResponse{
		Success:   true,
		RequestID: requestID,
		Context: PageContextInfo{
			URL:         desc.URL,
			Title:       desc.Title,
			Headings:    emptyIfNil(desc.Headings),
			Keywords:    emptyIfNil(desc.Keywords),
			Topics:      emptyIfNil(desc.Topics),
			HasEnriched: desc.Enriched,
		},
		MatchedProducts: products,
		Timestamp:       time.Now().UTC(),
	}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
