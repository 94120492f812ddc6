// internal/models/impression.go
package models

import "time"

// Impression is the analytics record written once per served request.
type Impression struct {
	ID             string    `json:"id"`
	RequestID      string    `json:"request_id"`
	PublisherID    string    `json:"publisher_id"`
	URL            string    `json:"url"`
	SlotID         string    `json:"slot_id"`
	DeviceType     string    `json:"device_type"`
	ViewportWidth  *int      `json:"viewport_width"`
	ViewportHeight *int      `json:"viewport_height"`
	MatchCount     int       `json:"match_count"`
	Enriched       bool      `json:"enriched"`
	CreatedAt      time.Time `json:"created_at"`
}
