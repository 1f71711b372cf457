package mcp

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List all workouts logged by a user, oldest first. Each workout includes its exercises and per-set rep/weight data."),
	mcp.WithString("username", mcp.Required(), mcp.Description("Owner's username")),
)

var toolGetLatestWorkout = mcp.NewTool("get_latest_workout",
	mcp.WithDescription("Get a user's most recent workout, optionally restricted to one workout category."),
	mcp.WithString("username", mcp.Required(), mcp.Description("Owner's username")),
	mcp.WithString("category", mcp.Description("Workout category (e.g. 'Push', 'Legs'). When omitted, the latest workout of any category is returned.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Fetch a single workout by its id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout UUID")),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog grouped by category."),
)

var toolListCategories = mcp.NewTool("list_categories",
	mcp.WithDescription("List the distinct workout category names."),
)

var toolListUsers = mcp.NewTool("list_users",
	mcp.WithDescription("List registered users."),
)

// --- Tool handlers ---

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username parameter is required"), nil
	}

	workouts, err := h.ds.WorkoutsByUser(ctx, username)
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getLatestWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	username, err := req.RequireString("username")
	if err != nil {
		return mcp.NewToolResultError("username parameter is required"), nil
	}
	category := req.GetString("category", "")

	var workout any
	if category == "" {
		workout, err = h.ds.LatestWorkout(ctx, username)
	} else {
		workout, err = h.ds.LatestWorkoutByCategory(ctx, username, category)
	}
	if err != nil {
		h.log.Error("mcp get_latest_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workout)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawID, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return mcp.NewToolResultError("id is not a valid UUID"), nil
	}

	workout, err := h.ds.Workout(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workout)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	grouped, err := h.ds.CategorizedExercises(ctx)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(grouped)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := h.ds.ExerciseCategories(ctx)
	if err != nil {
		h.log.Error("mcp list_categories", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(categories)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listUsers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	users, err := h.ds.ListUsers(ctx)
	if err != nil {
		h.log.Error("mcp list_users", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(users)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
