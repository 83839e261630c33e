// Package mcp exposes table extraction as MCP (Model Context Protocol) tools,
// so MCP clients such as Claude Desktop can extract tables they have read.
//
// Two tools are registered:
//
//   - extract_pk_summary: PK summary table from a markdown table
//   - extract_pe_study_info: study design facts from a markdown table
//
// # Serving over stdio
//
//	ex := pipeline.NewExtractor(c)
//	if err := mcp.ServeStdio(ctx, ex); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/spetersoncode/pkextract/pipeline"
)

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	logger  *slog.Logger
}

// WithName sets the server name reported to MCP clients.
func WithName(name string) ServerOption {
	return func(c *serverConfig) {
		c.name = name
	}
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger sets the logger for tool calls.
func WithLogger(l *slog.Logger) ServerOption {
	return func(c *serverConfig) {
		c.logger = l
	}
}

// NewServer creates an MCP server whose tools run on ex.
func NewServer(ex *pipeline.Extractor, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "pkextract",
		version: "1.0.0",
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(
		cfg.name,
		cfg.version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions("Extracts structured tables from pharmacology papers. "+
			"Pass a table as markdown with its caption. Use extract_pk_summary for pharmacokinetic "+
			"parameter tables and extract_pe_study_info for pharmacoepidemiology study tables."),
	)

	h := &handlers{ex: ex, logger: cfg.logger}
	s.AddTools(
		server.ServerTool{Tool: pkSummaryTool(), Handler: h.pkSummary},
		server.ServerTool{Tool: peStudyInfoTool(), Handler: h.peStudyInfo},
	)
	return s
}

// ServeStdio serves ex over stdin/stdout until ctx is cancelled or stdin
// closes.
func ServeStdio(ctx context.Context, ex *pipeline.Extractor, opts ...ServerOption) error {
	stdio := server.NewStdioServer(NewServer(ex, opts...))
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}
