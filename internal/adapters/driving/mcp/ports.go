package mcp

import (
	"github.com/quaystone/advisor-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Answer answers questions and retrieves passages.
	Answer driving.AnswerService

	// Catalog exposes the processing catalog as resources.
	Catalog driving.CatalogService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Answer == nil {
		return ErrMissingAnswerService
	}
	// Catalog is optional; resources degrade to empty listings.
	return nil
}
