package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/replog/internal/models"
)

// fakeDataSource serves canned data, or a fixed error when err is set.
type fakeDataSource struct {
	err      error
	users    []models.User
	workouts []models.Workout
}

func (f *fakeDataSource) ListUsers(ctx context.Context) ([]models.User, error) {
	return f.users, f.err
}

func (f *fakeDataSource) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	return nil, f.err
}

func (f *fakeDataSource) CategorizedExercises(ctx context.Context) (map[string][]models.Exercise, error) {
	if f.err != nil {
		return nil, f.err
	}
	return map[string][]models.Exercise{
		"Push": {{Name: "Bench Press", Category: "Push"}},
	}, nil
}

func (f *fakeDataSource) ExerciseCategories(ctx context.Context) ([]string, error) {
	return []string{"Push", "Pull"}, f.err
}

func (f *fakeDataSource) Workout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.workouts {
		if f.workouts[i].ID == id {
			return &f.workouts[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDataSource) WorkoutsByUser(ctx context.Context, username string) ([]models.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Workout{}
	for _, w := range f.workouts {
		if w.Username == username {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeDataSource) LatestWorkout(ctx context.Context, username string) (*models.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := len(f.workouts) - 1; i >= 0; i-- {
		if f.workouts[i].Username == username {
			return &f.workouts[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeDataSource) LatestWorkoutByCategory(ctx context.Context, username, category string) (*models.Workout, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := len(f.workouts) - 1; i >= 0; i-- {
		if f.workouts[i].Username == username && f.workouts[i].WorkoutType == category {
			return &f.workouts[i], nil
		}
	}
	return nil, errors.New("not found")
}

func newTestHandlers(ds DataSource) *handlers {
	return &handlers{ds: ds, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// TestGetWorkouts verifies the tool returns the user's workouts as JSON.
func TestGetWorkouts(t *testing.T) {
	ds := &fakeDataSource{workouts: []models.Workout{
		{ID: uuid.New(), Username: "sam", WorkoutType: "Push"},
		{ID: uuid.New(), Username: "alex", WorkoutType: "Pull"},
	}}
	h := newTestHandlers(ds)

	res, err := h.getWorkouts(context.Background(), callRequest("get_workouts", map[string]any{"username": "sam"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}

	var workouts []models.Workout
	if err := json.Unmarshal([]byte(resultText(t, res)), &workouts); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(workouts) != 1 || workouts[0].Username != "sam" {
		t.Errorf("workouts = %+v, want sam's single workout", workouts)
	}
}

// TestGetWorkoutsMissingArg verifies a missing username is a tool error,
// not a transport error.
func TestGetWorkoutsMissingArg(t *testing.T) {
	h := newTestHandlers(&fakeDataSource{})
	res, err := h.getWorkouts(context.Background(), callRequest("get_workouts", map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for missing username")
	}
}

// TestGetLatestWorkoutCategory verifies the category argument switches to
// the by-category query.
func TestGetLatestWorkoutCategory(t *testing.T) {
	push := models.Workout{ID: uuid.New(), Username: "sam", WorkoutType: "Push"}
	pull := models.Workout{ID: uuid.New(), Username: "sam", WorkoutType: "Pull"}
	h := newTestHandlers(&fakeDataSource{workouts: []models.Workout{push, pull}})

	res, err := h.getLatestWorkout(context.Background(),
		callRequest("get_latest_workout", map[string]any{"username": "sam", "category": "Push"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got models.Workout
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if got.ID != push.ID {
		t.Errorf("got workout %s, want %s", got.ID, push.ID)
	}
}

// TestGetWorkoutBadID verifies a malformed UUID is rejected before the data
// source is consulted.
func TestGetWorkoutBadID(t *testing.T) {
	h := newTestHandlers(&fakeDataSource{err: errors.New("should not be called")})
	res, err := h.getWorkout(context.Background(), callRequest("get_workout", map[string]any{"id": "not-a-uuid"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for bad id")
	}
	if text := resultText(t, res); !strings.Contains(text, "UUID") {
		t.Errorf("error text = %q, want UUID complaint", text)
	}
}

// TestQueryFailure verifies data source errors become tool errors.
func TestQueryFailure(t *testing.T) {
	h := newTestHandlers(&fakeDataSource{err: errors.New("connection refused")})
	res, err := h.listCategories(context.Background(), callRequest("list_categories", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error")
	}
	if text := resultText(t, res); !strings.Contains(text, "connection refused") {
		t.Errorf("error text = %q, want underlying cause", text)
	}
}

// TestListExercises verifies the categorized catalog is returned.
func TestListExercises(t *testing.T) {
	h := newTestHandlers(&fakeDataSource{})
	res, err := h.listExercises(context.Background(), callRequest("list_exercises", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var grouped map[string][]models.Exercise
	if err := json.Unmarshal([]byte(resultText(t, res)), &grouped); err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if len(grouped["Push"]) != 1 {
		t.Errorf("grouped = %v", grouped)
	}
}
