// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters):
//
//   - Processor: lazily turns a JQL query into rendered documents
//   - Exporter: drains a Processor into a DocumentStore and records the run
//   - SettingsService: reads and validates the persisted configuration
//
// Services are pure Go with no CGO or external dependencies beyond uuid.
package services
