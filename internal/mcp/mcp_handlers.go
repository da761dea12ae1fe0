package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/seamosgenios/panel/core"
	"github.com/seamosgenios/panel/internal/contract"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// configFor clones the base config and applies the filter and limit arguments.
// Missing arguments keep the configured values.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	filter := h.baseCfg.Filter
	if s := request.GetString("sede", ""); s != "" {
		sede, err := contract.ParseSedeFilter(s)
		if err != nil {
			return nil, err
		}
		filter.Sede = sede
	}
	if a := request.GetString("area", ""); a != "" {
		area, err := contract.ParseAreaFilter(a)
		if err != nil {
			return nil, err
		}
		filter.Area = area
	}

	cfg := h.baseCfg.CloneWithFilter(filter)
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}
	cfg.SessionIndex = 0
	return cfg, nil
}

// jsonResult marshals a result as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStudents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	students, err := core.GetStudentsResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load students: %v", err)), nil
	}
	if request.GetInt("limit", 0) > 0 && len(students) > cfg.ResultLimit {
		students = students[:cfg.ResultLimit]
	}
	return jsonResult(students)
}

func (h *toolHandler) handleGetStudent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("name", "")
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	detail, err := core.GetStudentResult(ctx, cfg, h.mgr, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("student lookup failed: %v", err)), nil
	}
	return jsonResult(detail)
}

func (h *toolHandler) handleGetRanking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	session := request.GetInt("session", 0)
	if session < 0 {
		return mcp.NewToolResultError("session must be a positive index"), nil
	}
	if session > 0 {
		cfg.SessionIndex = session
		ranking, err := core.GetClassRankingResults(ctx, cfg, h.mgr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
		}
		return jsonResult(ranking)
	}

	ranking, err := core.GetRankingResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}
	return jsonResult(ranking)
}

func (h *toolHandler) handleGetAlerts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	alerts, err := core.GetAlertsResults(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build alerts: %v", err)), nil
	}
	return jsonResult(alerts)
}

func (h *toolHandler) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	summary, err := core.GetSummaryResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to build summary: %v", err)), nil
	}
	return jsonResult(summary)
}
