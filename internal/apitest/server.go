// Package apitest is an in-memory stand-in for the remote workout API,
// used by client and command tests. It mirrors the real service's routes,
// bearer-token auth, and FastAPI-shaped error bodies.
package apitest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/claude/replog/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Server implements the workout API against in-memory maps.
type Server struct {
	router chi.Router

	mu        sync.Mutex
	users     map[uuid.UUID]models.User
	passwords map[string]string // username -> password
	tokens    map[string]string // token -> username
	exercises []models.Exercise
	workouts  map[uuid.UUID]models.Workout
	order     []uuid.UUID // workout insertion order, oldest first
}

// New creates a Server with an empty store.
func New() *Server {
	s := &Server{
		router:    chi.NewRouter(),
		users:     make(map[uuid.UUID]models.User),
		passwords: make(map[string]string),
		tokens:    make(map[string]string),
		workouts:  make(map[uuid.UUID]models.Workout),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Post("/users/token", s.handleToken)
	s.router.Post("/users/", s.handleCreateUser)
	s.router.Get("/users/all/", s.handleListUsers)
	s.router.Get("/users/{id}", s.handleGetUser)
	s.router.Patch("/users/{id}", s.handleUpdateUser)
	s.router.Delete("/users/{id}", s.handleDeleteUser)

	s.router.Get("/exercises/", s.handleListExercises)
	s.router.Get("/exercises/categorized", s.handleCategorized)
	s.router.Get("/exercises/categories", s.handleCategories)

	s.router.Get("/workouts/user/{username}/latest/{category}", s.handleLatestByCategory)
	s.router.Get("/workouts/user/{username}/latest", s.handleLatest)
	s.router.Get("/workouts/user/{username}", s.handleWorkoutsByUser)
	s.router.Get("/workouts/{id}", s.handleGetWorkout)

	// Mutations require a bearer token.
	s.router.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Post("/workouts/", s.handleCreateWorkout)
		r.Patch("/workouts/{id}", s.handleUpdateWorkout)
		r.Delete("/workouts/{id}", s.handleDeleteWorkout)
	})
}

// --- Seeding helpers ---

// SeedUser registers a user with a password and returns the stored record.
func (s *Server) SeedUser(username, email, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: uuid.New(), Username: username, Email: email}
	s.users[u.ID] = u
	s.passwords[username] = password
	return u
}

// SeedExercise adds a catalog entry.
func (s *Server) SeedExercise(name, category string) models.Exercise {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := models.Exercise{ID: uuid.New(), Name: name, Category: category}
	s.exercises = append(s.exercises, e)
	return e
}

// SeedWorkout stores a workout verbatim.
func (s *Server) SeedWorkout(w models.Workout) models.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	s.workouts[w.ID] = w
	s.order = append(s.order, w.ID)
	return w
}

// Workout returns a stored workout by id for assertions.
func (s *Server) Workout(id uuid.UUID) (models.Workout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.workouts[id]
	return w, ok
}

// --- Auth ---

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		s.mu.Lock()
		_, valid := s.tokens[token]
		s.mu.Unlock()
		if !valid {
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid form body")
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.passwords[username]
	if !ok || stored != password {
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}

	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	token := hex.EncodeToString(buf)
	s.tokens[token] = username

	writeJSON(w, http.StatusOK, models.Token{AccessToken: token, TokenType: "bearer"})
}

// --- Users ---

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if in.Username == "" || in.Password == "" {
		writeValidation(w, []map[string]any{
			{"loc": []any{"body", "username"}, "msg": "field required"},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.passwords[in.Username]; exists {
		writeDetail(w, http.StatusConflict, "Username already registered")
		return
	}
	u := models.User{ID: uuid.New(), Username: in.Username, Email: in.Email, FullName: in.FullName}
	s.users[u.ID] = u
	s.passwords[in.Username] = in.Password
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	s.mu.Unlock()
	slices.SortFunc(users, func(a, b models.User) int { return strings.Compare(a.Username, b.Username) })
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "value is not a valid uuid")
		return
	}
	s.mu.Lock()
	u, ok := s.users[id]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "value is not a valid uuid")
		return
	}
	var in models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.Disabled != nil {
		u.Disabled = *in.Disabled
	}
	s.users[id] = u
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "value is not a valid uuid")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	delete(s.users, id)
	writeJSON(w, http.StatusOK, true)
}

// --- Exercises ---

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	exercises := slices.Clone(s.exercises)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, exercises)
}

func (s *Server) handleCategorized(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	grouped := make(map[string][]models.Exercise)
	for _, e := range s.exercises {
		grouped[e.Category] = append(grouped[e.Category], e)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, grouped)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	seen := make(map[string]bool)
	categories := []string{}
	for _, e := range s.exercises {
		if !seen[e.Category] {
			seen[e.Category] = true
			categories = append(categories, e.Category)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, categories)
}

// --- Workouts ---

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var payload models.WorkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if payload.Username == "" {
		writeValidation(w, []map[string]any{
			{"loc": []any{"body", "username"}, "msg": "field required"},
		})
		return
	}

	stored := workoutFromPayload(uuid.New(), payload)
	s.mu.Lock()
	s.workouts[stored.ID] = stored
	s.order = append(s.order, stored.ID)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "value is not a valid uuid")
		return
	}
	s.mu.Lock()
	stored, ok := s.workouts[id]
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "Workout not found")
		return
	}
	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handleWorkoutsByUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	s.mu.Lock()
	workouts := []models.Workout{}
	for _, id := range s.order {
		if wk, ok := s.workouts[id]; ok && wk.Username == username {
			workouts = append(workouts, wk)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) latestFor(username, category string) (models.Workout, bool) {
	for i := len(s.order) - 1; i >= 0; i-- {
		wk, ok := s.workouts[s.order[i]]
		if !ok || wk.Username != username {
			continue
		}
		if category != "" && wk.WorkoutType != category {
			continue
		}
		return wk, true
	}
	return models.Workout{}, false
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	wk, ok := s.latestFor(chi.URLParam(r, "username"), "")
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "No workouts found")
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleLatestByCategory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	wk, ok := s.latestFor(chi.URLParam(r, "username"), chi.URLParam(r, "category"))
	s.mu.Unlock()
	if !ok {
		writeDetail(w, http.StatusNotFound, "No workouts found")
		return
	}
	writeJSON(w, http.StatusOK, wk)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "value is not a valid uuid")
		return
	}
	var payload models.WorkoutPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.workouts[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Workout not found")
		return
	}
	updated := workoutFromPayload(id, payload)
	if updated.Username == "" {
		updated.Username = existing.Username
	}
	s.workouts[id] = updated
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "value is not a valid uuid")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.workouts[id]
	if !ok {
		writeDetail(w, http.StatusNotFound, "Workout not found")
		return
	}
	delete(s.workouts, id)
	writeJSON(w, http.StatusOK, stored)
}

func workoutFromPayload(id uuid.UUID, payload models.WorkoutPayload) models.Workout {
	stored := models.Workout{
		ID:          id,
		Username:    payload.Username,
		WorkoutType: payload.WorkoutType,
		Notes:       payload.Notes,
	}
	if payload.CreatedTime != "" {
		var wt models.WireTime
		if err := wt.Parse(payload.CreatedTime); err == nil {
			stored.CreatedTime = &wt
		}
	}
	for _, le := range payload.LoggedExercises {
		stored.LoggedExercises = append(stored.LoggedExercises, models.LoggedExercise{
			ID:       uuid.New(),
			Exercise: models.ExerciseRef{Name: le.Name},
			Sets:     slices.Clone(le.Sets),
		})
	}
	return stored
}

// --- Response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes the API's string error shape: {"detail": "..."}.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeValidation writes a 422 with structured field errors.
func writeValidation(w http.ResponseWriter, entries []map[string]any) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"detail": entries})
}
