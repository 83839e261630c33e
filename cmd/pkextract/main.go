// Command pkextract extracts structured tables from a batch of markdown
// tables listed in a YAML manifest, writing one CSV per table plus a
// combined CSV.
//
// Configuration is via environment variables (or a .env file):
//
//	PKEXTRACT_MODEL        - Model id (default: gpt-4.1-mini; ollama/<name> for local models)
//	PKEXTRACT_LOG_LEVEL    - debug, info, warn or error (default: info)
//	PKEXTRACT_MAX_ATTEMPTS - Attempts per model step (default: 5)
//	PKEXTRACT_INTERVAL     - Minimum gap between model calls (default: 0)
//	PKEXTRACT_TIMEOUT      - Timeout per table (default: 10m)
//	PKEXTRACT_CONCURRENCY  - Tables extracted in parallel (default: 4)
//	OLLAMA_BASE_URL        - OpenAI-compatible endpoint for ollama/ models
//	ANTHROPIC_API_KEY      - Anthropic API key
//	OPENAI_API_KEY         - OpenAI API key
//	GOOGLE_API_KEY         - Google API key
//
// Usage:
//
//	go run ./cmd/pkextract -manifest tables.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spetersoncode/pkextract/internal/config"
	"github.com/spetersoncode/pkextract/pipeline"
)

func main() {
	manifestPath := flag.String("manifest", "", "path to the YAML manifest (required)")
	outDir := flag.String("out", "", "output directory (overrides the manifest)")
	flag.Parse()

	if *manifestPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	failed, err := run(ctx, *manifestPath, *outDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pkextract: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(3)
	}
}

// run extracts every table of the manifest and returns the number of
// tables that failed.
func run(ctx context.Context, manifestPath, outDir string) (int, error) {
	cfg, err := config.Load()
	if err != nil {
		return 0, fmt.Errorf("configuration error: %w", err)
	}
	logger := cfg.NewLogger(os.Stderr)

	m, err := LoadManifest(manifestPath)
	if err != nil {
		return 0, err
	}
	if outDir != "" {
		m.Output = outDir
	}

	inputs, loadFailures := m.Inputs()
	for _, f := range loadFailures {
		logger.Warn("table not loaded", "id", f.ID, "error", f.Err)
	}

	ex := cfg.NewExtractor(cfg.NewClient(), logger)
	extract := ex.ExtractPKSummary
	if m.Kind == KindPEStudyInfo {
		extract = ex.ExtractPEStudyInfo
	}

	logger.Info("batch started",
		"kind", m.Kind,
		"tables", len(inputs),
		"model", cfg.Model,
		"concurrency", cfg.Concurrency,
	)
	res := pipeline.RunBatch(ctx, inputs, extract, cfg.Concurrency)

	paths, err := writeOutputs(m.Output, res.Succeeded())
	if err != nil {
		return 0, fmt.Errorf("write outputs: %w", err)
	}

	logger.Info("batch complete",
		"extracted", len(res.Succeeded()),
		"failed", len(res.Failures)+len(loadFailures),
		"files", len(paths),
		"prompt_tokens", res.Usage.PromptTokens,
		"completion_tokens", res.Usage.CompletionTokens,
		"cost_usd", fmt.Sprintf("%.4f", cfg.ChatModel().Cost(res.Usage)),
	)
	fmt.Fprintln(os.Stderr, res.Summary())
	for _, f := range loadFailures {
		fmt.Fprintf(os.Stderr, "  %s: %v\n", f.ID, f.Err)
	}
	logFailures(logger, res.Failures)

	return len(res.Failures) + len(loadFailures), nil
}

func logFailures(logger *slog.Logger, failures []pipeline.Failure) {
	for _, f := range failures {
		logger.Debug("table failed", "id", f.ID, "error", f.Err)
	}
}
