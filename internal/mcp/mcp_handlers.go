package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/davidkimai/recursive-distill/core"
	"github.com/davidkimai/recursive-distill/internal/contract"
	"github.com/davidkimai/recursive-distill/internal/platform"
	"github.com/davidkimai/recursive-distill/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config and applies the overrides shared
// by every tool.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if d := request.GetString("docs", ""); d != "" {
		cfg.DocsDir = d
	}
	if w := request.GetString("window", ""); w != "" {
		window, err := contract.ParseWindowDuration(w)
		if err != nil {
			return nil, fmt.Errorf("invalid window: %w", err)
		}
		cfg.Window = window
	}
	return cfg, nil
}

// clients builds the revision and platform clients for one request.
func (h *toolHandler) clients(cfg *contract.Config) (contract.RevisionClient, contract.PlatformClient) {
	if !cfg.PlatformEnabled() {
		return contract.NewLocalRevisionClient(), platform.Disabled{}
	}
	var cache contract.CacheStore
	if h.mgr != nil {
		cache = h.mgr.GetFetchStore()
	}
	return contract.NewLocalRevisionClient(), platform.NewClient(cfg, cache)
}

func (h *toolHandler) handleCoherenceScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	revisions, platformClient := h.clients(cfg)
	report, err := core.ComputeReport(ctx, cfg, revisions, platformClient, time.Now().UTC())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleAttributionStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	revisions, platformClient := h.clients(cfg)
	graph, err := core.ComputeGraph(ctx, cfg, revisions, platformClient)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("graph folding failed: %v", err)), nil
	}

	result := struct {
		Metrics         schema.GraphMetrics `json:"metrics"`
		TopContributors []schema.Node       `json:"topContributors"`
	}{
		Metrics:         graph.Metrics,
		TopContributors: core.TopContributors(graph, request.GetInt("limit", 10)),
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleResidueList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	revisions, platformClient := h.clients(cfg)
	catalog, _, err := core.ComputeResidue(ctx, cfg, revisions, platformClient, time.Now().UTC())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("residue scan failed: %v", err)), nil
	}

	if status := request.GetString("status", ""); status != "" {
		filtered := make([]schema.ResidueInstance, 0, len(catalog.Instances))
		for _, instance := range catalog.Instances {
			if instance.Status == schema.ResidueStatus(status) {
				filtered = append(filtered, instance)
			}
		}
		catalog = &schema.ResidueCatalog{Instances: filtered}
		catalog.Recount()
	}

	jsonData, _ := json.MarshalIndent(catalog, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleTrendReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	revisions, platformClient := h.clients(cfg)
	period, err := core.ComputeTrends(ctx, cfg, revisions, platformClient, time.Now().UTC())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trend report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(period, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handlePublicationCheck(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if threshold := request.GetFloat("threshold", 0); threshold > 0 {
		if threshold > 1 {
			return mcp.NewToolResultError("threshold must be in [0,1]"), nil
		}
		cfg.PublicationThreshold = threshold
	}

	result, err := core.ComputeCheck(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("publication check failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
