package mcp

import (
	"github.com/custodia-labs/jira-export/internal/core/ports/driven"
	"github.com/custodia-labs/jira-export/internal/core/ports/driving"
)

// Ports aggregates the interfaces required by the MCP server.
type Ports struct {
	// Processor fetches and renders issues.
	Processor driving.Processor

	// Documents exposes previously exported documents as resources. Optional.
	Documents driven.DocumentStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Processor == nil {
		return ErrMissingProcessor
	}
	return nil
}
