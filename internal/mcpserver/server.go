// Package mcpserver exposes typelens lookups as MCP tools over stdio.
//
// Each tool is a thin synchronous wrapper around the public API: it runs
// the lookup, renders the result as a text block, and reports failures as
// in-band tool errors so a bad request never takes the transport down.
package mcpserver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/abramin/typelens"
	"github.com/abramin/typelens/internal/config"
)

// Version is reported to MCP clients during initialization.
const Version = "0.3.0"

// HoverInput is the payload of the hover tool.
type HoverInput struct {
	File        string `json:"file" jsonschema:"Path to the Go source file to inspect"`
	Line        int    `json:"line" jsonschema:"1-based line of the position to hover"`
	Column      int    `json:"column" jsonschema:"1-based column of the position to hover"`
	IncludeDocs bool   `json:"include_docs,omitempty" jsonschema:"Include the declaration's doc comment in the result"`
	Project     string `json:"project,omitempty" jsonschema:"Explicit project directory; defaults to the nearest go.mod above the file"`
}

// HoverByNameInput is the payload of the hover_by_name tool.
type HoverByNameInput struct {
	File        string `json:"file" jsonschema:"Path to the Go source file to inspect"`
	Name        string `json:"name" jsonschema:"Symbol name to look up (function, method, variable, or call target)"`
	Line        int    `json:"line,omitempty" jsonschema:"Optional 1-based line to disambiguate same-named symbols"`
	IncludeDocs bool   `json:"include_docs,omitempty" jsonschema:"Include the declaration's doc comment in the result"`
	Project     string `json:"project,omitempty" jsonschema:"Explicit project directory; defaults to the nearest go.mod above the file"`
}

// BatchHoverInput is the payload of the batch_hover tool.
type BatchHoverInput struct {
	File        string              `json:"file" jsonschema:"Path to the Go source file to inspect"`
	Positions   []typelens.Position `json:"positions" jsonschema:"Positions to hover; the program is loaded once for all of them"`
	IncludeDocs bool                `json:"include_docs,omitempty" jsonschema:"Include doc comments in the results"`
	Project     string              `json:"project,omitempty" jsonschema:"Explicit project directory; defaults to the nearest go.mod above the file"`
}

// Server wires the typelens lookups into an MCP server.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	mcp    *mcp.Server
}

// New creates the server and registers its three tools.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		mcp: mcp.NewServer(&mcp.Implementation{
			Name:    "typelens",
			Version: Version,
		}, nil),
	}

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "hover",
		Description: "Get the type signature the Go compiler infers at a file position (1-based line and column), as an editor hover would show it. Returns the signature, return type, symbol kind and name, and optionally the doc comment.",
	}, s.handleHover)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "hover_by_name",
		Description: "Get the inferred type signature of a symbol by name instead of position. Matches the first declaration or call of that name in the file; pass a line to disambiguate same-named symbols.",
	}, s.handleHoverByName)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "batch_hover",
		Description: "Hover many positions in one file with a single program load. Each position succeeds or fails independently; the response preserves input order and reports success/error counts.",
	}, s.handleBatchHover)

	return s
}

// Run serves MCP requests on stdio until the context is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("starting typelens MCP server", "version", Version)
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) handleHover(ctx context.Context, req *mcp.CallToolRequest, input HoverInput) (*mcp.CallToolResult, any, error) {
	res, err := typelens.LookupByPosition(input.File, input.Line, input.Column, typelens.Options{
		Project:     input.Project,
		IncludeDocs: input.IncludeDocs || s.cfg.Docs,
		Config:      s.cfg,
	})
	if err != nil {
		s.logger.Debug("hover failed", "file", input.File, "line", input.Line, "column", input.Column, "err", err)
		return errorResult(err.Error()), nil, nil
	}
	return textResult(res.Render()), nil, nil
}

func (s *Server) handleHoverByName(ctx context.Context, req *mcp.CallToolRequest, input HoverByNameInput) (*mcp.CallToolResult, any, error) {
	res, err := typelens.LookupByName(input.File, input.Name, typelens.Options{
		Project:     input.Project,
		Line:        input.Line,
		IncludeDocs: input.IncludeDocs || s.cfg.Docs,
		Config:      s.cfg,
	})
	if err != nil {
		s.logger.Debug("hover_by_name failed", "file", input.File, "name", input.Name, "err", err)
		return errorResult(err.Error()), nil, nil
	}
	return textResult(res.Render()), nil, nil
}

func (s *Server) handleBatchHover(ctx context.Context, req *mcp.CallToolRequest, input BatchHoverInput) (*mcp.CallToolResult, any, error) {
	batch, err := typelens.BatchLookupByPosition(input.File, input.Positions, typelens.Options{
		Project:     input.Project,
		IncludeDocs: input.IncludeDocs || s.cfg.Docs,
		Config:      s.cfg,
	})
	if err != nil {
		s.logger.Debug("batch_hover failed", "file", input.File, "err", err)
		return errorResult(err.Error()), nil, nil
	}
	return textResult(renderBatch(batch)), nil, nil
}

// renderBatch formats a batch outcome with one block per position.
func renderBatch(batch *typelens.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d ok, %d failed\n", batch.SuccessCount, batch.ErrorCount)
	for _, item := range batch.Items {
		fmt.Fprintf(&b, "\n%d:%d\n", item.Position.Line, item.Position.Column)
		if item.Err != "" {
			fmt.Fprintf(&b, "error: %s\n", item.Err)
			continue
		}
		fmt.Fprintln(&b, item.Result.Render())
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}
