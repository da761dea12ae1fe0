// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/seamosgenios/panel/internal/contract"
)

// NewMCPServer initializes and configures the panel MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Attendance Panel Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	sede := mcp.WithString("sede", mcp.Description("Institution filter (todas, SG, IETAC, OTRO). Defaults to the configured filter."))
	area := mcp.WithString("area", mcp.Description("Subject area filter, e.g. 'Matemáticas'. Accents and case are ignored."))

	s.AddTool(mcp.NewTool("get_students",
		mcp.WithDescription("List students with attendance metrics, engagement, status and notes, sorted by name."),
		sede, area,
		mcp.WithNumber("limit", mcp.Description("Limit the number of students returned.")),
	), h.handleGetStudents)

	s.AddTool(mcp.NewTool("get_student",
		mcp.WithDescription("Show one student's sessions, metrics, unified rank, note and contacted flag."),
		mcp.WithString("name", mcp.Description("Full name of the student. Sede prefixes and case are ignored."), mcp.Required()),
		sede, area,
	), h.handleGetStudent)

	s.AddTool(mcp.NewTool("get_ranking",
		mcp.WithDescription("Rank students by the unified score, or the attendees of one session by the class score."),
		mcp.WithNumber("session", mcp.Description("1-based index of a filtered session. Omit for the unified ranking.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of ranked rows.")),
		sede, area,
	), h.handleGetRanking)

	s.AddTool(mcp.NewTool("get_alerts",
		mcp.WithDescription("List students at risk, students needing attention and excellent students."),
		sede, area,
	), h.handleGetAlerts)

	s.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Dashboard KPIs: totals, attendance rate, durations, punctuality and distributions."),
		sede, area,
	), h.handleGetSummary)

	return s
}

// StartMCPServer starts the panel MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
