// Package jira renders Jira issues as Markdown documents.
//
// A document carries a title line, a metadata block, the translated
// description, and optionally the comment thread and attachment list,
// followed by an export footer. Conversion is pure: the only inputs are
// the issue, its comments and the converter's clock.
package jira
