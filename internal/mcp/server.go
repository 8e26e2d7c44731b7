package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("GymCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("GymCoach workout plan server. List and inspect saved workout plans, search the exercise catalog, and produce share links and export documents for clients."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListPlans, Handler: h.listPlans},
		server.ServerTool{Tool: toolGetPlan, Handler: h.getPlan},
		server.ServerTool{Tool: toolSearchExercises, Handler: h.searchExercises},
		server.ServerTool{Tool: toolExportPlan, Handler: h.exportPlan},
		server.ServerTool{Tool: toolSharePlan, Handler: h.sharePlan},
		server.ServerTool{Tool: toolGetStats, Handler: h.getStats},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resPlans, Handler: h.plansResource},
		server.ServerResource{Resource: resStats, Handler: h.statsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resPlans = mcp.NewResource(
	"gymcoach://plans",
	"Workout Plans",
	mcp.WithResourceDescription("Summary of every saved workout plan in creation order"),
	mcp.WithMIMEType("application/json"),
)

var resStats = mcp.NewResource(
	"gymcoach://stats",
	"Dashboard Stats",
	mcp.WithResourceDescription("Total workouts, active clients and plans shared"),
	mcp.WithMIMEType("application/json"),
)
