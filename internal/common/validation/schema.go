package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// adRequestSchema is the contract the browser SDK must satisfy.
const adRequestSchema = `{
  "type": "object",
  "properties": {
    "url": {"type": "string", "minLength": 1},
    "publisher_id": {"type": "string", "minLength": 1},
    "slot_id": {"type": "string"},
    "slot_width": {"type": ["integer", "null"], "minimum": 0},
    "slot_height": {"type": ["integer", "null"], "minimum": 0},
    "page_title": {"type": "string"},
    "page_headings": {"type": "array", "items": {"type": "string"}},
    "visual_style": {
      "type": "object",
      "properties": {
        "theme": {"type": "string"},
        "background_color": {"type": "string"},
        "text_color": {"type": "string"},
        "primary_color": {"type": "string"},
        "font_family": {"type": "string"},
        "accent_colors": {"type": "array", "items": {"type": "string"}}
      }
    },
    "persona": {
      "type": "object",
      "properties": {
        "time_of_day": {"type": "string"},
        "location": {"type": "string"},
        "weather": {"type": "string"},
        "temperature": {"type": "string"},
        "os": {"type": "string"},
        "device_type": {"type": "string"}
      }
    },
    "device_type": {"type": "string"},
    "viewport_width": {"type": ["integer", "null"], "minimum": 0},
    "viewport_height": {"type": ["integer", "null"], "minimum": 0},
    "user_agent": {"type": "string"}
  },
  "required": ["url", "publisher_id"],
  "additionalProperties": true
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var compiledAdRequestSchema = gojsonschema.NewStringLoader(adRequestSchema)

// ValidateAdRequest validates a raw request body against the ad request schema.
func ValidateAdRequest(body []byte) (*ValidationResult, error) {
	result, err := gojsonschema.Validate(compiledAdRequestSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}, nil
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	return &ValidationResult{Valid: false, Errors: errs}, nil
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ValidateURL checks the page URL is an absolute http(s) URL.
func ValidateURL(url string) bool {
	urlPattern := regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
	return urlPattern.MatchString(url)
}
