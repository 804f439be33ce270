// Package mcp provides an MCP (Model Context Protocol) server adapter for
// the advisor. It lets AI assistants like Claude query the knowledge base
// through the ask and search tools.
package mcp

import "errors"

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
