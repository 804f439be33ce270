package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/quaystone/advisor-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for advisor resources.
	uriScheme = "advisor://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the processing catalog.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "catalog",
		Name:        "catalog",
		Description: "Every processed document with its outcome and chunk count",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)

	// Static resource for catalog totals.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "catalog/summary",
		Name:        "catalog-summary",
		Description: "Aggregate counts over the processing catalog",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)

	// Template for a single catalog entry.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{documentId}",
		Name:        "document",
		Description: "Catalog record of a single processed document",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

// handleCatalogResource returns all catalog entries.
func (s *Server) handleCatalogResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	entries, err := s.ports.Catalog.List()
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}
	if entries == nil {
		entries = []domain.CatalogEntry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling catalog: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleSummaryResource returns the catalog totals.
func (s *Server) handleSummaryResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	summary, err := s.ports.Catalog.Summary()
	if err != nil {
		return nil, fmt.Errorf("summarising catalog: %w", err)
	}

	// Stable JSON shape regardless of the domain type's layout.
	type summaryInfo struct {
		Entries     int       `json:"entries"`
		Succeeded   int       `json:"succeeded"`
		Failed      int       `json:"failed"`
		Chunks      int       `json:"chunks"`
		LastUpdated time.Time `json:"last_updated"`
	}

	data, err := json.MarshalIndent(summaryInfo{
		Entries:     summary.Entries,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		Chunks:      summary.Chunks,
		LastUpdated: summary.LastUpdated,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling summary: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDocumentResource returns the catalog entry for one document.
func (s *Server) handleDocumentResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Catalog == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract documentId from URI: advisor://documents/{documentId}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	entries, err := s.ports.Catalog.List()
	if err != nil {
		return nil, fmt.Errorf("listing catalog: %w", err)
	}

	for i := range entries {
		if entries[i].DocumentID != docID {
			continue
		}
		data, err := json.MarshalIndent(entries[i], "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshalling entry: %w", err)
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			}},
		}, nil
	}

	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

// extractDocumentID extracts the document ID from a URI like
// advisor://documents/{documentId}.
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
