// Package mcp exposes the workout journal to MCP clients over stdio.
package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(j Journal, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("MuscleMemo", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("MuscleMemo workout journal. List sessions, read daily and body-part rollups, training stats, export CSV reports, and import workout log CSV. Sessions on the same calendar day are merged on import."),
	)

	h := &handlers{j: j, log: log, now: time.Now}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListSessions, Handler: h.listSessions},
		server.ServerTool{Tool: toolExportCSV, Handler: h.exportCSV},
		server.ServerTool{Tool: toolGetDailyRollup, Handler: h.getDailyRollup},
		server.ServerTool{Tool: toolGetBodyPartRollup, Handler: h.getBodyPartRollup},
		server.ServerTool{Tool: toolGetTrainingStats, Handler: h.getTrainingStats},
		server.ServerTool{Tool: toolImportCSV, Handler: h.importCSV},
		server.ServerTool{Tool: toolMergeDuplicates, Handler: h.mergeDuplicates},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// ServeStdio runs the server on stdin/stdout until the input closes.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	j   Journal
	log *slog.Logger
	now func() time.Time
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"musclememo://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Workout sessions from the last 14 days, with exercises and sets"),
	mcp.WithMIMEType("application/json"),
)

// recentDays is the window of the recent_sessions resource.
const recentDays = 14

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := h.now()
	sessions, err := h.j.Sessions(ctx, sessionQuery(end.AddDate(0, 0, -recentDays), end, 0))
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, sessions)
}
