package api

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claude/replog/internal/apitest"
	"github.com/claude/replog/internal/models"
	"github.com/claude/replog/internal/session"
)

// newTestClient starts an in-memory API server and returns a client wired to
// it through a memory-only session store.
func newTestClient(t *testing.T) (*Client, *apitest.Server, *session.Store) {
	t.Helper()
	fake := apitest.New()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	sess := session.NewStore(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(srv.URL, sess, 5*time.Second), fake, sess
}

// login authenticates against the fake server and records the session.
func login(t *testing.T, c *Client, sess *session.Store, user models.User, password string) {
	t.Helper()
	tok, err := c.Login(context.Background(), user.Username, password)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sess.Login(tok.AccessToken, user)
}

// TestLogin verifies the token exchange and that bad credentials surface as
// a 401.
func TestLogin(t *testing.T) {
	c, fake, _ := newTestClient(t)
	fake.SeedUser("sam", "sam@example.com", "hunter2")

	tok, err := c.Login(context.Background(), "sam", "hunter2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.AccessToken == "" {
		t.Error("access token is empty")
	}
	if tok.TokenType != "bearer" {
		t.Errorf("token type = %q, want bearer", tok.TokenType)
	}

	_, err = c.Login(context.Background(), "sam", "wrong")
	if !IsUnauthorized(err) {
		t.Errorf("error = %v, want 401", err)
	}
}

// TestWorkoutMutationsRequireToken verifies an unauthenticated create is
// rejected and the same call succeeds once the session holds a token.
func TestWorkoutMutationsRequireToken(t *testing.T) {
	c, fake, sess := newTestClient(t)
	user := fake.SeedUser("sam", "sam@example.com", "hunter2")
	payload := models.WorkoutPayload{Username: "sam", WorkoutType: "Push"}

	_, err := c.CreateWorkout(context.Background(), payload)
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want 401", err)
	}

	login(t, c, sess, user, "hunter2")
	created, err := c.CreateWorkout(context.Background(), payload)
	if err != nil {
		t.Fatalf("create after login: %v", err)
	}
	if created.Username != "sam" || created.WorkoutType != "Push" {
		t.Errorf("created = %+v", created)
	}
}

// TestValidationError verifies a FastAPI-shaped 422 body reaches the caller
// as a flattened detail string.
func TestValidationError(t *testing.T) {
	c, _, _ := newTestClient(t)

	_, err := c.CreateUser(context.Background(), models.UserCreate{})
	apiErr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error = %T (%v), want *Error", err, err)
	}
	if apiErr.StatusCode != 422 {
		t.Errorf("status = %d, want 422", apiErr.StatusCode)
	}
	if want := "body.username: field required"; apiErr.Detail != want {
		t.Errorf("detail = %q, want %q", apiErr.Detail, want)
	}
}

// TestUserLifecycle verifies create, list, get, patch, and delete against
// the user endpoints.
func TestUserLifecycle(t *testing.T) {
	c, fake, sess := newTestClient(t)
	admin := fake.SeedUser("admin", "admin@example.com", "hunter2")
	login(t, c, sess, admin, "hunter2")

	created, err := c.CreateUser(context.Background(), models.UserCreate{
		Username: "sam",
		Email:    "sam@example.com",
		Password: "secret",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = c.CreateUser(context.Background(), models.UserCreate{Username: "sam", Password: "x"})
	if !IsConflict(err) {
		t.Errorf("duplicate create error = %v, want 409", err)
	}

	users, err := c.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("got %d users, want 2", len(users))
	}

	fullName := "Sam Example"
	updated, err := c.UpdateUser(context.Background(), created.ID, models.UserUpdate{FullName: &fullName})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != fullName {
		t.Errorf("full name = %q, want %q", updated.FullName, fullName)
	}
	if updated.Email != "sam@example.com" {
		t.Errorf("email changed to %q on partial update", updated.Email)
	}

	if err := c.DeleteUser(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = c.GetUser(context.Background(), created.ID)
	if !IsNotFound(err) {
		t.Errorf("get after delete = %v, want 404", err)
	}
}

// TestExerciseCatalog verifies the flat, categorized, and category-name
// views of the catalog.
func TestExerciseCatalog(t *testing.T) {
	c, fake, _ := newTestClient(t)
	fake.SeedExercise("Bench Press", "Push")
	fake.SeedExercise("Overhead Press", "Push")
	fake.SeedExercise("Deadlift", "Pull")

	flat, err := c.ListExercises(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(flat) != 3 {
		t.Errorf("got %d exercises, want 3", len(flat))
	}

	grouped, err := c.CategorizedExercises(context.Background())
	if err != nil {
		t.Fatalf("categorized: %v", err)
	}
	if len(grouped["Push"]) != 2 || len(grouped["Pull"]) != 1 {
		t.Errorf("grouped = %v", grouped)
	}

	categories, err := c.ExerciseCategories(context.Background())
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 {
		t.Errorf("categories = %v, want 2 entries", categories)
	}
}

// TestWorkoutQueries verifies the by-user, latest, and latest-by-category
// reads.
func TestWorkoutQueries(t *testing.T) {
	c, fake, _ := newTestClient(t)
	fake.SeedWorkout(models.Workout{Username: "sam", WorkoutType: "Push"})
	pull := fake.SeedWorkout(models.Workout{Username: "sam", WorkoutType: "Pull"})
	legs := fake.SeedWorkout(models.Workout{Username: "sam", WorkoutType: "Legs"})
	fake.SeedWorkout(models.Workout{Username: "alex", WorkoutType: "Push"})

	mine, err := c.WorkoutsByUser(context.Background(), "sam")
	if err != nil {
		t.Fatalf("by user: %v", err)
	}
	if len(mine) != 3 {
		t.Errorf("got %d workouts, want 3", len(mine))
	}

	latest, err := c.LatestWorkout(context.Background(), "sam")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.ID != legs.ID {
		t.Errorf("latest = %s, want %s", latest.ID, legs.ID)
	}

	latestPull, err := c.LatestWorkoutByCategory(context.Background(), "sam", "Pull")
	if err != nil {
		t.Fatalf("latest by category: %v", err)
	}
	if latestPull.ID != pull.ID {
		t.Errorf("latest pull = %s, want %s", latestPull.ID, pull.ID)
	}

	_, err = c.LatestWorkout(context.Background(), "nobody")
	if !IsNotFound(err) {
		t.Errorf("latest for unknown user = %v, want 404", err)
	}
}

// TestWorkoutUpdateDelete verifies the patch and delete round trip,
// including nested exercises and sets.
func TestWorkoutUpdateDelete(t *testing.T) {
	c, fake, sess := newTestClient(t)
	user := fake.SeedUser("sam", "sam@example.com", "hunter2")
	login(t, c, sess, user, "hunter2")

	created, err := c.CreateWorkout(context.Background(), models.WorkoutPayload{
		Username:    "sam",
		WorkoutType: "Push",
		CreatedTime: "2024-01-15T09:30",
		LoggedExercises: []models.LoggedExercisePayload{
			{Name: "Bench Press", Sets: []models.Set{
				{SetNumber: 1, Reps: 8, Weight: 135},
				{SetNumber: 2, Reps: 8, Weight: 145},
			}},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(created.LoggedExercises) != 1 || len(created.LoggedExercises[0].Sets) != 2 {
		t.Fatalf("created exercises = %+v", created.LoggedExercises)
	}
	if created.CreatedTime == nil || created.CreatedTime.String() != "2024-01-15T09:30" {
		t.Errorf("created_time = %v, want 2024-01-15T09:30", created.CreatedTime)
	}

	updated, err := c.UpdateWorkout(context.Background(), created.ID, models.WorkoutPayload{
		Username:    "sam",
		WorkoutType: "Push",
		Notes:       "drop set on the last one",
		LoggedExercises: []models.LoggedExercisePayload{
			{Name: "Bench Press", Sets: []models.Set{{SetNumber: 1, Reps: 10, Weight: 135}}},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Notes != "drop set on the last one" {
		t.Errorf("notes = %q", updated.Notes)
	}
	if len(updated.LoggedExercises[0].Sets) != 1 {
		t.Errorf("sets = %+v", updated.LoggedExercises[0].Sets)
	}

	if err := c.DeleteWorkout(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := fake.Workout(created.ID); ok {
		t.Error("workout still stored after delete")
	}
	_, err = c.Workout(context.Background(), created.ID)
	if !IsNotFound(err) {
		t.Errorf("get after delete = %v, want 404", err)
	}
}
