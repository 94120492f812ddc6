// internal/models/page.go
package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxEmbedKeywords = 20
	maxEmbedHeadings = 10
	maxEmbedContent  = 1000
)

// VisualStyle describes the host page's look so styled ad images can blend in.
// All fields are optional; absent fields degrade to defaults.
type VisualStyle struct {
	Theme           string   `json:"theme,omitempty"`
	BackgroundColor string   `json:"background_color,omitempty"`
	TextColor       string   `json:"text_color,omitempty"`
	PrimaryColor    string   `json:"primary_color,omitempty"`
	FontFamily      string   `json:"font_family,omitempty"`
	FontSize        string   `json:"font_size,omitempty"`
	AccentColors    []string `json:"accent_colors,omitempty"`
}

// DefaultVisualStyle returns the style used when the page supplies none.
func DefaultVisualStyle() VisualStyle {
	return VisualStyle{
		Theme:           "light",
		BackgroundColor: "#ffffff",
		TextColor:       "#1a1a1a",
		PrimaryColor:    "#2563eb",
		FontFamily:      "sans-serif",
	}
}

// PageDescription is one enriched (or degraded) view of a page. Created on a
// cache miss, read-only thereafter.
type PageDescription struct {
	URL         string      `json:"url"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Headings    []string    `json:"headings,omitempty"`
	Keywords    []string    `json:"keywords,omitempty"`
	Topics      []string    `json:"topics,omitempty"`
	MainContent string      `json:"main_content,omitempty"`
	VisualStyle VisualStyle `json:"visual_style"`
	Enriched    bool        `json:"enriched"`
	CrawlRunID  string      `json:"crawl_run_id,omitempty"`
	CapturedAt  time.Time   `json:"captured_at"`
}

// EmbeddingText builds the labeled-section text representation that is fed to
// the embedder. Products and pages must go through the same vector space.
func (p *PageDescription) EmbeddingText() string {
	var parts []string

	if p.Title != "" {
		parts = append(parts, fmt.Sprintf("Title: %s", p.Title))
	}
	if len(p.Topics) > 0 {
		parts = append(parts, fmt.Sprintf("Topics: %s", strings.Join(p.Topics, ", ")))
	}
	if p.Description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", p.Description))
	}
	if len(p.Keywords) > 0 {
		kw := p.Keywords
		if len(kw) > maxEmbedKeywords {
			kw = kw[:maxEmbedKeywords]
		}
		parts = append(parts, fmt.Sprintf("Keywords: %s", strings.Join(kw, ", ")))
	}
	if p.MainContent != "" {
		parts = append(parts, fmt.Sprintf("Content: %s", TruncateRunes(p.MainContent, maxEmbedContent)))
	}
	if len(p.Headings) > 0 {
		hs := p.Headings
		if len(hs) > maxEmbedHeadings {
			hs = hs[:maxEmbedHeadings]
		}
		parts = append(parts, fmt.Sprintf("Headings: %s", strings.Join(hs, ", ")))
	}

	return strings.Join(parts, "\n\n")
}

// TruncateRunes caps s at limit runes. Cutting at a byte offset could split a
// multi-byte rune and leave invalid UTF-8 in serialized descriptions.
func TruncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	seen := 0
	for i := range s {
		if seen == limit {
			return s[:i]
		}
		seen++
	}
	return s
}

// ProductEmbeddingText is the product-side counterpart of EmbeddingText.
func ProductEmbeddingText(p *Product) string {
	var parts []string

	if p.Name != "" {
		parts = append(parts, fmt.Sprintf("Product: %s", p.Name))
	}
	if tier := p.PriceTier(); tier != "" {
		parts = append(parts, fmt.Sprintf("Price tier: %s", tier))
	}
	if p.Description != "" {
		parts = append(parts, fmt.Sprintf("Description: %s", p.Description))
	}

	return strings.Join(parts, "\n\n")
}
