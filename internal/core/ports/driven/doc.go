// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - IssueClient: Fetches issues and comments from the tracker
//   - Converter: Renders an issue and its comments as a document
//   - MarkupTranslator: Translates the tracker's markup into Markdown
//
// # Optional Interfaces
//
// Used by the export service only; the processor never persists anything:
//
//   - DocumentStore: Document persistence (files, SQLite, memory)
//   - RunStore: Export run bookkeeping
//   - ConfigStore: Application configuration file
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
