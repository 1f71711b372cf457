package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered. The
// surface is read-only: drafting and submission stay in the interactive
// client.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("replog", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Workout log server. Query users, the exercise catalog, and logged workouts with per-set rep and weight data."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetLatestWorkout, Handler: h.getLatestWorkout},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolListCategories, Handler: h.listCategories},
		server.ServerTool{Tool: toolListUsers, Handler: h.listUsers},
	)

	s.AddResources(
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
		server.ServerResource{Resource: resCategories, Handler: h.categories},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resExerciseCatalog = mcp.NewResource(
	"replog://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All catalog exercises grouped by category"),
	mcp.WithMIMEType("application/json"),
)

var resCategories = mcp.NewResource(
	"replog://categories",
	"Workout Categories",
	mcp.WithResourceDescription("The distinct workout category names"),
	mcp.WithMIMEType("application/json"),
)
