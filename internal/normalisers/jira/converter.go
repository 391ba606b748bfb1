package jira

import (
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/jira-export/internal/core/domain"
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/normalisers/wikimarkup"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	dateLayout     = "2006-01-02"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// Option customises a Converter.
type Option func(*Converter)

// WithClock sets the clock used for the export footer and ExportedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		c.now = now
	}
}

// WithTranslator replaces the default wiki markup translator.
func WithTranslator(t driven.MarkupTranslator) Option {
	return func(c *Converter) {
		c.translator = t
	}
}

// Converter renders issues as Markdown.
type Converter struct {
	translator driven.MarkupTranslator
	now        func() time.Time
}

// New creates a Converter using a lenient wikimarkup translator and the wall clock.
func New(opts ...Option) *Converter {
	c := &Converter{
		translator: wikimarkup.New(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert renders one issue. Comments are only used when opts enables them.
func (c *Converter) Convert(
	issue *domain.Issue, comments []domain.Comment, opts driven.ConvertOptions,
) (*domain.IssueDocument, error) {
	if issue == nil {
		return nil, domain.ErrInvalidInput
	}

	description, err := c.description(issue)
	if err != nil {
		return nil, err
	}

	sections := []string{
		strings.TrimSpace(fmt.Sprintf("# [%s] %s", issue.Key, issue.Summary)),
		metadata(issue),
		"## Description",
		description,
	}

	if opts.IncludeComments && len(comments) > 0 {
		thread, err := c.comments(comments)
		if err != nil {
			return nil, err
		}
		sections = append(sections, "## Comments", thread)
	}

	if opts.IncludeAttachments && len(issue.Attachments) > 0 {
		sections = append(sections, "## Attachments", attachments(issue.Attachments))
	}

	now := c.now()
	sections = append(sections, "---\n*Exported from Jira: "+now.Format(dateLayout)+"*")

	return &domain.IssueDocument{
		Key:        issue.Key,
		Content:    strings.Join(sections, "\n\n"),
		ExportedAt: now,
	}, nil
}

func (c *Converter) description(issue *domain.Issue) (string, error) {
	text, err := c.translator.Translate(issue.Description)
	if err != nil {
		return "", &domain.ConversionError{Field: "description", Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return "_No description provided._", nil
	}
	return text, nil
}

// metadata renders the **Field:** block. Absent fields are omitted.
func metadata(issue *domain.Issue) string {
	lines := []string{"**Key:** " + issue.Key}

	add := func(label, value string) {
		if value != "" {
			lines = append(lines, "**"+label+":** "+value)
		}
	}

	add("Type", issue.Type)
	add("Status", issue.Status)
	add("Priority", issue.Priority)
	add("Assignee", issue.Assignee)
	add("Reporter", issue.Reporter)
	if !issue.Created.IsZero() {
		add("Created", issue.Created.Format(dateTimeLayout))
	}
	if !issue.Updated.IsZero() {
		add("Updated", issue.Updated.Format(dateTimeLayout))
	}
	if issue.Parent != nil {
		add("Parent", strings.TrimSpace(fmt.Sprintf("[%s] %s", issue.Parent.Key, issue.Parent.Summary)))
	}
	add("Sprint", issue.Sprint)
	if len(issue.Labels) > 0 {
		labels := make([]string, len(issue.Labels))
		for i, l := range issue.Labels {
			labels[i] = "`" + l + "`"
		}
		add("Labels", strings.Join(labels, " "))
	}

	return strings.Join(lines, "\n")
}

// comments renders the thread in the order given.
func (c *Converter) comments(comments []domain.Comment) (string, error) {
	blocks := make([]string, 0, len(comments))
	for i, comment := range comments {
		author := comment.Author
		if author == "" {
			author = "Unknown"
		}
		created := "Unknown date"
		if !comment.Created.IsZero() {
			created = comment.Created.Format(dateTimeLayout)
		}

		body, err := c.translator.Translate(comment.Body)
		if err != nil {
			return "", &domain.ConversionError{Field: fmt.Sprintf("comment %d", i+1), Err: err}
		}

		block := fmt.Sprintf("### %s - %s", author, created)
		if body != "" {
			block += "\n\n" + body
		}
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n"), nil
}

func attachments(list []domain.Attachment) string {
	lines := make([]string, 0, len(list))
	for _, a := range list {
		url := a.URL
		if url == "" {
			url = "#"
		}
		lines = append(lines, fmt.Sprintf("- [%s](%s) (%s)", a.Filename, url, FormatSize(a.Size)))
	}
	return strings.Join(lines, "\n")
}

// FormatSize renders a byte count with one decimal in KB, MB or GB.
// Sizes below 1 KB are shown in whole bytes.
func FormatSize(n int64) string {
	const unit = 1024
	switch {
	case n < unit:
		return fmt.Sprintf("%d B", n)
	case n < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(n)/unit)
	case n < unit*unit*unit:
		return fmt.Sprintf("%.1f MB", float64(n)/(unit*unit))
	default:
		return fmt.Sprintf("%.1f GB", float64(n)/(unit*unit*unit))
	}
}
