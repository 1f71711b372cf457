package models

import "github.com/google/uuid"

// Exercise is a catalog entry. The catalog is read-only from the client's
// perspective; workouts reference exercises by name.
type Exercise struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Category string    `json:"category,omitempty"`
}

// Set is one rep/weight block within a logged exercise. SetNumber is a
// 1-based ordinal, contiguous within the owning exercise's set list.
type Set struct {
	SetNumber int     `json:"set_number"`
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
}

// ExerciseRef names a catalog exercise inside a logged exercise response.
type ExerciseRef struct {
	Name string `json:"name"`
}

// LoggedExercise is one exercise entry within a stored workout.
type LoggedExercise struct {
	ID       uuid.UUID   `json:"id"`
	Exercise ExerciseRef `json:"exercise"`
	Sets     []Set       `json:"sets"`
}

// Workout is a stored workout as returned by the API. The API does not
// guarantee set ordering inside logged exercises.
type Workout struct {
	ID              uuid.UUID        `json:"id"`
	Username        string           `json:"username"`
	WorkoutType     string           `json:"workout_type"`
	Notes           string           `json:"notes,omitempty"`
	CreatedTime     *WireTime        `json:"created_time,omitempty"`
	LoggedExercises []LoggedExercise `json:"logged_exercises"`
}

// LoggedExercisePayload is the request form of a logged exercise: the
// exercise is referenced by bare name.
type LoggedExercisePayload struct {
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

// WorkoutPayload is the create/update request body.
type WorkoutPayload struct {
	Username        string                  `json:"username"`
	CreatedTime     string                  `json:"created_time,omitempty"`
	Notes           string                  `json:"notes"`
	WorkoutType     string                  `json:"workout_type"`
	LoggedExercises []LoggedExercisePayload `json:"logged_exercises"`
}
