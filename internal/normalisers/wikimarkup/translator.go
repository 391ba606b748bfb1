package wikimarkup

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/logger"
)

// Ensure Translator implements the interface.
var _ driven.MarkupTranslator = (*Translator)(nil)

// ErrUnterminated is returned in strict mode when a block macro is never closed.
var ErrUnterminated = errors.New("unterminated block")

// BlockError reports an unterminated block macro.
type BlockError struct {
	Macro string
	Line  int
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("unterminated {%s} block opened on line %d", e.Macro, e.Line)
}

// Is reports whether target is ErrUnterminated.
func (e *BlockError) Is(target error) bool {
	return target == ErrUnterminated
}

// Option customises a Translator.
type Option func(*Translator)

// WithStrict makes unterminated block macros an error instead of being
// closed at end of input.
func WithStrict() Option {
	return func(t *Translator) {
		t.strict = true
	}
}

// WithBrowseURL turns bare issue references like [CAL-1] into links to
// <base>/browse/CAL-1.
func WithBrowseURL(base string) Option {
	return func(t *Translator) {
		t.browseBase = strings.TrimRight(base, "/")
	}
}

// Translator converts wiki markup to Markdown. It is safe for concurrent use.
type Translator struct {
	strict     bool
	browseBase string
}

// New creates a Translator.
func New(opts ...Option) *Translator {
	t := &Translator{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var (
	blockOpenRe = regexp.MustCompile(`^\{(code|noformat|quote|panel)(?::([^}]*))?\}(.*)$`)
	headingRe   = regexp.MustCompile(`^\s*h([1-6])\.\s*(.*)$`)
	bqRe        = regexp.MustCompile(`^\s*bq\.\s*(.*)$`)
	hrRe        = regexp.MustCompile(`^\s*-{4,}\s*$`)
	listRe      = regexp.MustCompile(`^\s*([*#]+|-)\s+(.*)$`)
	blankRunRe  = regexp.MustCompile(`\n{3,}`)
)

// Translate converts markup to Markdown. Empty input yields "".
func (t *Translator) Translate(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}

	markup = strings.ReplaceAll(markup, "\r\n", "\n")
	markup = strings.ReplaceAll(markup, "\r", "\n")

	out, err := t.translateLines(strings.Split(markup, "\n"))
	if err != nil {
		return "", err
	}

	result := strings.Join(out, "\n")
	result = blankRunRe.ReplaceAllString(result, "\n\n")
	return strings.Trim(result, "\n"), nil
}

// translateLines renders a run of lines. Quote and panel bodies recurse.
func (t *Translator) translateLines(in []string) ([]string, error) {
	lines := append([]string(nil), in...)
	out := make([]string, 0, len(lines))
	table := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if m := blockOpenRe.FindStringSubmatch(trimmed); m != nil {
			table = false
			macro, params := m[1], m[2]

			body, rest, end, closed := collectBlock(lines, i, macro, m[3])
			if !closed {
				if t.strict {
					return nil, &BlockError{Macro: macro, Line: i + 1}
				}
				logger.Debug("Closing unterminated {%s} block at end of input", macro)
			}

			rendered, err := t.renderBlock(macro, params, body)
			if err != nil {
				return nil, err
			}
			out = append(out, rendered...)

			i = end
			if strings.TrimSpace(rest) != "" {
				lines[end] = rest
				i = end - 1
			}
			continue
		}

		if strings.HasPrefix(trimmed, "|") {
			out = append(out, t.tableRow(trimmed, !table)...)
			table = true
			continue
		}
		table = false

		out = append(out, t.translateLine(line))
	}

	return out, nil
}

// collectBlock gathers the body of a block macro opened on line start.
// rest is any text following the closing tag on its line.
func collectBlock(lines []string, start int, macro, first string) (body []string, rest string, end int, closed bool) {
	tag := "{" + macro + "}"

	if idx := strings.Index(first, tag); idx >= 0 {
		if pre := first[:idx]; strings.TrimSpace(pre) != "" {
			body = append(body, pre)
		}
		return body, first[idx+len(tag):], start, true
	}
	if strings.TrimSpace(first) != "" {
		body = append(body, first)
	}

	for j := start + 1; j < len(lines); j++ {
		if idx := strings.Index(lines[j], tag); idx >= 0 {
			if pre := lines[j][:idx]; strings.TrimSpace(pre) != "" {
				body = append(body, pre)
			}
			return body, lines[j][idx+len(tag):], j, true
		}
		body = append(body, lines[j])
	}
	return body, "", len(lines) - 1, false
}

func (t *Translator) renderBlock(macro, params string, body []string) ([]string, error) {
	switch macro {
	case "code", "noformat":
		out := make([]string, 0, len(body)+2)
		out = append(out, "```"+codeLanguage(macro, params))
		out = append(out, body...)
		return append(out, "```"), nil

	case "quote":
		inner, err := t.translateLines(body)
		if err != nil {
			return nil, err
		}
		return quoteLines(inner), nil

	default: // panel
		inner, err := t.translateLines(body)
		if err != nil {
			return nil, err
		}
		var out []string
		if title := macroParam(params, "title"); title != "" {
			out = append(out, "> **"+title+"**", ">")
		}
		return append(out, quoteLines(inner)...), nil
	}
}

// codeLanguage picks the first positional parameter of {code:java|title=x}.
func codeLanguage(macro, params string) string {
	if macro != "code" {
		return ""
	}
	for _, p := range strings.Split(params, "|") {
		p = strings.TrimSpace(p)
		if p != "" && !strings.Contains(p, "=") {
			return strings.ToLower(p)
		}
	}
	return ""
}

func macroParam(params, name string) string {
	for _, p := range strings.Split(params, "|") {
		k, v, ok := strings.Cut(p, "=")
		if ok && strings.TrimSpace(k) == name {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func quoteLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l == "" {
			out = append(out, ">")
			continue
		}
		out = append(out, "> "+l)
	}
	return out
}

// translateLine handles line-level constructs, then inline markup.
func (t *Translator) translateLine(line string) string {
	if hrRe.MatchString(line) {
		return "---"
	}
	if m := headingRe.FindStringSubmatch(line); m != nil {
		level := int(m[1][0] - '0')
		return strings.Repeat("#", level) + " " + t.inline(m[2])
	}
	if m := bqRe.FindStringSubmatch(line); m != nil {
		return "> " + t.inline(m[1])
	}
	if m := listRe.FindStringSubmatch(line); m != nil {
		return listPrefix(m[1]) + t.inline(m[2])
	}
	return t.inline(strings.TrimSpace(line))
}

// listPrefix maps a marker run like "#*" to an indented Markdown marker.
// Nesting under a numbered item needs three columns, under a bullet two.
func listPrefix(markers string) string {
	var sb strings.Builder
	for _, c := range markers[:len(markers)-1] {
		if c == '#' {
			sb.WriteString("   ")
		} else {
			sb.WriteString("  ")
		}
	}
	if markers[len(markers)-1] == '#' {
		sb.WriteString("1. ")
	} else {
		sb.WriteString("- ")
	}
	return sb.String()
}

// tableRow renders one table row. The first row of a table always becomes
// the Markdown header; a table without a || row gets an empty header.
func (t *Translator) tableRow(line string, first bool) []string {
	header := strings.HasPrefix(line, "||")

	sep := "|"
	if header {
		sep = "||"
	}
	raw := strings.TrimSuffix(strings.TrimPrefix(line, sep), sep)
	cells := splitCells(raw, sep)
	for i, c := range cells {
		cells[i] = escapePipes(t.inline(strings.TrimSpace(c)))
	}

	row := "| " + strings.Join(cells, " | ") + " |"
	if !first {
		return []string{row}
	}

	rule := "|" + strings.Repeat(" --- |", len(cells))
	if header {
		return []string{row, rule}
	}
	empty := "|" + strings.Repeat("  |", len(cells))
	return []string{empty, rule, row}
}

// escapePipes escapes literal pipes so GFM does not split the cell.
func escapePipes(cell string) string {
	return strings.ReplaceAll(cell, "|", `\|`)
}

// splitCells splits on sep outside of [links] and {macros}.
func splitCells(s, sep string) []string {
	var cells []string
	depth, last := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[', '{':
			depth++
		case ']', '}':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && strings.HasPrefix(s[i:], sep) {
				cells = append(cells, s[last:i])
				i += len(sep) - 1
				last = i + 1
			}
		}
	}
	return append(cells, s[last:])
}
