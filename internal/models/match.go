// internal/models/match.go
package models

// MatchResult pairs a product with its relevance score for one request. Not
// persisted; discarded after the response is sent.
type MatchResult struct {
	Product        *Product `json:"product"`
	Score          float64  `json:"score"`
	ImageURL       string   `json:"image_url"`
	EditedImageURL string   `json:"edited_image_url,omitempty"`
	LandingURL     string   `json:"landing_url"`
}
