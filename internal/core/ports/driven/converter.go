package driven

import "github.com/custodia-labs/jira-export/internal/core/domain"

// ConvertOptions selects the optional document sections.
type ConvertOptions struct {
	IncludeComments    bool
	IncludeAttachments bool
}

// Converter renders one issue as a document.
// Implementations are pure: no network or file I/O, no mutation of inputs.
type Converter interface {
	// Convert renders the issue and, when enabled, its comments and attachments.
	// Translator failures are returned as *domain.ConversionError.
	Convert(issue *domain.Issue, comments []domain.Comment, opts ConvertOptions) (*domain.IssueDocument, error)
}

// MarkupTranslator translates the tracker's rich-text dialect into Markdown.
type MarkupTranslator interface {
	Translate(markup string) (string, error)
}
