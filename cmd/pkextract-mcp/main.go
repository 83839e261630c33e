// Command pkextract-mcp is an MCP server that exposes table extraction over
// stdio.
//
// It reads the same environment variables as pkextract. Logs go to stderr;
// stdout carries the protocol.
//
// Configuration for Claude Desktop (~/Library/Application Support/Claude/claude_desktop_config.json):
//
//	{
//	    "mcpServers": {
//	        "pkextract": {
//	            "command": "go",
//	            "args": ["run", "./cmd/pkextract-mcp"],
//	            "cwd": "/path/to/pkextract"
//	        }
//	    }
//	}
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spetersoncode/pkextract/internal/config"
	"github.com/spetersoncode/pkextract/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ex := cfg.NewExtractor(cfg.NewClient(), logger)
	logger.Info("serving", "model", cfg.Model)
	if err := mcp.ServeStdio(ctx, ex,
		mcp.WithName("pkextract"),
		mcp.WithVersion("1.0.0"),
		mcp.WithLogger(logger),
	); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
