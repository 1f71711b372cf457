// Package api is the HTTP client for the remote workout service. Every
// request goes through the injected session store, which attaches the
// bearer token whenever a session exists.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/replog/internal/models"
	"github.com/claude/replog/internal/session"
	"github.com/google/uuid"
)

// Client calls the workout API over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
}

// New creates a Client for the given base URL. The session store supplies
// credentials; it may be freshly restored or logged out.
func New(baseURL string, sess *session.Store, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    sess,
	}
}

// do sends one request and decodes the JSON response into out (skipped when
// out is nil). Non-2xx responses become *Error; transport failures are
// wrapped. There are no retries; each call is independent and failures
// surface once.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.session.Attach(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("api: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("api: decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("api: marshal request: %w", err)
	}
	return c.do(ctx, method, path, bytes.NewReader(data), "application/json", out)
}

// --- Authentication ---

// Login exchanges credentials for a bearer token. It does not touch the
// session store: recording the session is the caller's decision, made after
// this call succeeds.
func (c *Client) Login(ctx context.Context, username, password string) (models.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok models.Token
	err := c.do(ctx, http.MethodPost, "/users/token",
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &tok)
	if err != nil {
		return models.Token{}, err
	}
	return tok, nil
}

// --- Users ---

// CreateUser registers a new user. Public endpoint; doubles as signup.
func (c *Client) CreateUser(ctx context.Context, user models.UserCreate) (*models.User, error) {
	var created models.User
	if err := c.sendJSON(ctx, http.MethodPost, "/users/", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.getJSON(ctx, "/users/all/", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := c.getJSON(ctx, "/users/"+id.String(), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser applies a partial update; nil fields in updates are untouched.
func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, updates models.UserUpdate) (*models.User, error) {
	var user models.User
	if err := c.sendJSON(ctx, http.MethodPatch, "/users/"+id.String(), updates, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id.String(), nil, "", nil)
}

// --- Exercise catalog ---

func (c *Client) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	if err := c.getJSON(ctx, "/exercises/", &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// CategorizedExercises returns the catalog grouped by category name.
func (c *Client) CategorizedExercises(ctx context.Context) (map[string][]models.Exercise, error) {
	grouped := make(map[string][]models.Exercise)
	if err := c.getJSON(ctx, "/exercises/categorized", &grouped); err != nil {
		return nil, err
	}
	return grouped, nil
}

// ExerciseCategories returns the distinct category names.
func (c *Client) ExerciseCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/exercises/categories", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// --- Workouts ---

func (c *Client) CreateWorkout(ctx context.Context, payload models.WorkoutPayload) (*models.Workout, error) {
	var created models.Workout
	if err := c.sendJSON(ctx, http.MethodPost, "/workouts/", payload, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) Workout(ctx context.Context, id uuid.UUID) (*models.Workout, error) {
	var w models.Workout
	if err := c.getJSON(ctx, "/workouts/"+id.String(), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) WorkoutsByUser(ctx context.Context, username string) ([]models.Workout, error) {
	var workouts []models.Workout
	if err := c.getJSON(ctx, "/workouts/user/"+url.PathEscape(username), &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (c *Client) LatestWorkout(ctx context.Context, username string) (*models.Workout, error) {
	var w models.Workout
	if err := c.getJSON(ctx, "/workouts/user/"+url.PathEscape(username)+"/latest", &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) LatestWorkoutByCategory(ctx context.Context, username, category string) (*models.Workout, error) {
	path := "/workouts/user/" + url.PathEscape(username) + "/latest/" + url.PathEscape(category)
	var w models.Workout
	if err := c.getJSON(ctx, path, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWorkout applies a partial update to an existing workout.
func (c *Client) UpdateWorkout(ctx context.Context, id uuid.UUID, payload models.WorkoutPayload) (*models.Workout, error) {
	var w models.Workout
	if err := c.sendJSON(ctx, http.MethodPatch, "/workouts/"+id.String(), payload, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/workouts/"+id.String(), nil, "", nil)
}
