// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/davidkimai/recursive-distill/internal/contract"
)

// NewMCPServer initializes and configures the Distill MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Distill Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: coherence_score ---
	s.AddTool(mcp.NewTool("coherence_score",
		mcp.WithDescription("Score repository documentation coherence: signal preservation, feedback integration, bounded recursion and elastic tolerance plus their weighted overall score."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to current directory if not specified).")),
		mcp.WithString("docs", mcp.Description("Documentation directory relative to the repository root.")),
		mcp.WithString("window", mcp.Description("Reporting window (e.g., '7d', '2 weeks').")),
	), h.handleCoherenceScore)

	// --- 2. Tool: attribution_stats ---
	s.AddTool(mcp.NewTool("attribution_stats",
		mcp.WithDescription("Fold repository activity into the attribution graph and return its nodes, links and density."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of top contributors returned.")),
	), h.handleAttributionStats)

	// --- 3. Tool: residue_list ---
	s.AddTool(mcp.NewTool("residue_list",
		mcp.WithDescription("Scan documents and discussions for symbolic residue and return the merged catalog."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("status", mcp.Description("Filter instances by status (active, pending, resolved)."), mcp.Enum("active", "pending", "resolved")),
	), h.handleResidueList)

	// --- 4. Tool: trend_report ---
	s.AddTool(mcp.NewTool("trend_report",
		mcp.WithDescription("Build the period report: score deltas against the prior snapshot, attribution, residue and activity summaries."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithString("window", mcp.Description("Reporting window (e.g., '7d', '2 weeks').")),
	), h.handleTrendReport)

	// --- 5. Tool: publication_check ---
	s.AddTool(mcp.NewTool("publication_check",
		mcp.WithDescription("Gate the stored coherence report against the publication threshold."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithNumber("threshold", mcp.Description("Publication threshold override in [0,1].")),
	), h.handlePublicationCheck)

	return s
}

// StartMCPServer starts the Distill MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
