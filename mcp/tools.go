package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/spetersoncode/pkextract/pipeline"
	"github.com/spetersoncode/pkextract/table"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatCSV      = "csv"
	FormatJSON     = "json"
)

func tableArgs(name, description string) mcp.Tool {
	return mcp.NewTool(name,
		mcp.WithDescription(description),
		mcp.WithString("table", mcp.Required(), mcp.Description("The source table as markdown, header row first")),
		mcp.WithString("caption", mcp.Description("Table caption")),
		mcp.WithString("footnote", mcp.Description("Table footnote")),
		mcp.WithString("id", mcp.Description("Identifier echoed in the result, e.g. PMC123/table2")),
		mcp.WithString("format", mcp.Description("Result format (default: markdown)"),
			mcp.Enum(FormatMarkdown, FormatCSV, FormatJSON)),
	)
}

func pkSummaryTool() mcp.Tool {
	return tableArgs("extract_pk_summary",
		"Extract a pharmacokinetic summary table: drug, analyte, specimen, population, parameter type and unit, and reported values")
}

func peStudyInfoTool() mcp.Tool {
	return tableArgs("extract_pe_study_info",
		"Extract the study design facts of a pharmacoepidemiology table")
}

type handlers struct {
	ex     *pipeline.Extractor
	logger *slog.Logger
}

func (h *handlers) pkSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.extract(ctx, req, h.ex.ExtractPKSummary)
}

func (h *handlers) peStudyInfo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.extract(ctx, req, h.ex.ExtractPEStudyInfo)
}

func (h *handlers) extract(ctx context.Context, req mcp.CallToolRequest, fn pipeline.ExtractFunc) (*mcp.CallToolResult, error) {
	md, err := req.RequireString("table")
	if err != nil {
		return mcp.NewToolResultError("table is required"), nil
	}
	src, err := table.ParseMarkdown(md)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid table: %v", err)), nil
	}

	in := pipeline.Input{
		ID:       req.GetString("id", ""),
		Table:    src,
		Caption:  req.GetString("caption", ""),
		Footnote: req.GetString("footnote", ""),
	}
	log := h.logger.With("tool", req.Params.Name, "id", in.ID)

	out, err := fn(ctx, in)
	if err != nil {
		var trace []string
		if out != nil {
			trace = out.Trace
		}
		log.Warn("extraction failed", "error", err, "trace", trace)
		return mcp.NewToolResultError(err.Error()), nil
	}
	log.Info("extraction complete", "rows", out.Table.Len(), "total_tokens", out.Usage.TotalTokens)

	text, err := render(out, req.GetString("format", FormatMarkdown))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func render(out *pipeline.Output, format string) (string, error) {
	switch format {
	case FormatMarkdown, "":
		return out.Table.Markdown(), nil
	case FormatCSV:
		var b bytes.Buffer
		if err := out.Table.WriteCSV(&b); err != nil {
			return "", err
		}
		return b.String(), nil
	case FormatJSON:
		data, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown format: %s", format)
	}
}
