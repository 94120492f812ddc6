// internal/styling/prompt.go
package styling

import (
	"fmt"
	"strings"

	"adserve-core/internal/models"
)

const maxPromptAccentColors = 3
const maxPromptKeywords = 10

// BuildPrompt creates the editing instruction for one product image from the
// page's topics, keywords and visual style.
func BuildPrompt(desc *models.PageDescription, productName string) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Edit this product image (%s) to match the website's visual style and theme.", productName))

	if len(desc.Topics) > 0 {
		parts = append(parts, fmt.Sprintf("Match the page topics: %s.", strings.Join(desc.Topics, ", ")))
	}

	if styleParts := stylePhrases(desc.VisualStyle); len(styleParts) > 0 {
		parts = append(parts, fmt.Sprintf("Apply visual styles: %s.", strings.Join(styleParts, ", ")))
	}

	if len(desc.Keywords) > 0 {
		kw := desc.Keywords
		if len(kw) > maxPromptKeywords {
			kw = kw[:maxPromptKeywords]
		}
		parts = append(parts, fmt.Sprintf("Incorporate these style elements: %s.", strings.Join(kw, ", ")))
	}

	parts = append(parts, "CRITICAL: Preserve the product's core appearance and functionality. Only adjust colors, lighting, and styling to match the website. Do NOT change the product itself.")
	parts = append(parts, "Make the product image feel native to the website's design aesthetic.")

	return strings.Join(parts, " ")
}

func stylePhrases(style models.VisualStyle) []string {
	var parts []string

	if style.Theme != "" {
		parts = append(parts, fmt.Sprintf("theme: %s", style.Theme))
	}
	if style.BackgroundColor != "" {
		parts = append(parts, fmt.Sprintf("background color: %s", style.BackgroundColor))
	}
	if style.TextColor != "" {
		parts = append(parts, fmt.Sprintf("text color: %s", style.TextColor))
	}
	if style.PrimaryColor != "" {
		parts = append(parts, fmt.Sprintf("primary color: %s", style.PrimaryColor))
	}
	if style.FontFamily != "" {
		parts = append(parts, fmt.Sprintf("font style: %s", style.FontFamily))
	}
	if len(style.AccentColors) > 0 {
		accents := style.AccentColors
		if len(accents) > maxPromptAccentColors {
			accents = accents[:maxPromptAccentColors]
		}
		parts = append(parts, fmt.Sprintf("accent colors: %s", strings.Join(accents, ", ")))
	}

	return parts
}
