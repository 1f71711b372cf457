package mcp

import (
	"context"

	"github.com/claude/replog/internal/api"
	"github.com/claude/replog/internal/models"
	"github.com/google/uuid"
)

// DataSource abstracts the workout API reads the MCP tools need, so tests
// can substitute a fixture for the HTTP client.
type DataSource interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListExercises(ctx context.Context) ([]models.Exercise, error)
	CategorizedExercises(ctx context.Context) (map[string][]models.Exercise, error)
	ExerciseCategories(ctx context.Context) ([]string, error)
	Workout(ctx context.Context, id uuid.UUID) (*models.Workout, error)
	WorkoutsByUser(ctx context.Context, username string) ([]models.Workout, error)
	LatestWorkout(ctx context.Context, username string) (*models.Workout, error)
	LatestWorkoutByCategory(ctx context.Context, username, category string) (*models.Workout, error)
}

// Compile-time check: *api.Client satisfies DataSource.
var _ DataSource = (*api.Client)(nil)
