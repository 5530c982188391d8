package converter

import "github.com/rgonek/quill-md-converter/document"

// Result holds the output of a conversion.
type Result struct {
	Markdown string            `json:"markdown"`
	Document document.Document `json:"-"`
	Warnings []Warning         `json:"warnings,omitempty"`
}

// WarningType categorizes conversion warnings.
type WarningType string

const (
	WarningMissingAttribute WarningType = "missing_attribute"
	WarningFallbackText     WarningType = "fallback_text"
)

// Warning represents a non-fatal issue encountered during conversion.
type Warning struct {
	Type     WarningType `json:"type"`
	NodeType string      `json:"nodeType,omitempty"`
	Message  string      `json:"message"`
}
