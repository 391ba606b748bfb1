// Package wikimarkup translates Jira wiki markup into Markdown.
//
// Block macros ({code}, {noformat}, {quote}, {panel}) are handled line by
// line; everything else is rewritten inline. Code and monospace content is
// never inline-translated. Unsupported macros are passed through as text.
package wikimarkup
