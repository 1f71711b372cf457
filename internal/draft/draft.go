// Package draft is the in-memory editable representation of a workout:
// an ordered list of logged exercises, each with an ordered list of sets.
// Set numbers are ordinals, not identities: they are kept contiguous and
// 1-based across removals.
package draft

import (
	"fmt"
	"slices"
	"time"

	"github.com/claude/replog/internal/models"
)

// Default values for a freshly added set.
const (
	defaultReps   = 8
	defaultWeight = 0
)

// SetField names an editable set value.
type SetField string

const (
	FieldReps   SetField = "reps"
	FieldWeight SetField = "weight"
)

// Set is one editable rep/weight block. Number is assigned by the owning
// exercise and recomputed on removal.
type Set struct {
	Number int
	Reps   Field
	Weight Field
}

// LoggedExercise is one editable exercise entry. Sets is never empty on a
// freshly created exercise; insertion order is display order.
type LoggedExercise struct {
	Name string
	Sets []Set
}

// Draft is a workout being edited. It is owned by a single editing flow,
// never shared, and discarded after a successful submission.
type Draft struct {
	Username    string
	WorkoutType string
	Notes       string
	CreatedTime *time.Time
	Exercises   []LoggedExercise
}

func defaultSet(number int) Set {
	return Set{Number: number, Reps: IntField(defaultReps), Weight: FloatField(defaultWeight)}
}

// NewExercise returns an unnamed exercise with one default set.
func NewExercise() LoggedExercise {
	return LoggedExercise{Sets: []Set{defaultSet(1)}}
}

// New returns a draft for username with one default exercise.
func New(username string) *Draft {
	return &Draft{
		Username:  username,
		Exercises: []LoggedExercise{NewExercise()},
	}
}

// AddExercise appends a default exercise.
func (d *Draft) AddExercise() {
	d.Exercises = append(d.Exercises, NewExercise())
}

// RemoveExercise removes the exercise at index i. Out of range is a no-op;
// exercises carry no ordinal, so the rest are left as they are.
func (d *Draft) RemoveExercise(i int) {
	if i < 0 || i >= len(d.Exercises) {
		return
	}
	d.Exercises = slices.Delete(d.Exercises, i, i+1)
}

// AddSet appends a default set numbered after the current last one.
func (e *LoggedExercise) AddSet() {
	e.Sets = append(e.Sets, defaultSet(len(e.Sets)+1))
}

// RemoveSet removes the set at index i, then renumbers every remaining set
// to its new 1-based position. Out of range is a no-op.
func (e *LoggedExercise) RemoveSet(i int) {
	if i < 0 || i >= len(e.Sets) {
		return
	}
	e.Sets = slices.Delete(e.Sets, i, i+1)
	for idx := range e.Sets {
		e.Sets[idx].Number = idx + 1
	}
}

// UpdateSet stores raw text into the named field of the set at index i.
// Out of range is a no-op.
func (e *LoggedExercise) UpdateSet(i int, field SetField, raw string) {
	if i < 0 || i >= len(e.Sets) {
		return
	}
	switch field {
	case FieldReps:
		e.Sets[i].Reps.Set(raw)
	case FieldWeight:
		e.Sets[i].Weight.Set(raw)
	}
}

// ToPayload converts the draft to the wire shape, coercing every set field.
// Validation failure leaves the draft untouched so the user can correct it.
func (d *Draft) ToPayload() (models.WorkoutPayload, error) {
	p := models.WorkoutPayload{
		Username:    d.Username,
		Notes:       d.Notes,
		WorkoutType: d.WorkoutType,
	}
	if d.Username == "" {
		return models.WorkoutPayload{}, fmt.Errorf("draft: no user selected")
	}
	if d.WorkoutType == "" {
		return models.WorkoutPayload{}, fmt.Errorf("draft: no workout type selected")
	}
	if d.CreatedTime != nil {
		p.CreatedTime = models.WireTime{Time: *d.CreatedTime}.String()
	}

	for i, ex := range d.Exercises {
		if ex.Name == "" {
			return models.WorkoutPayload{}, fmt.Errorf("draft: exercise %d has no name", i+1)
		}
		wire := models.LoggedExercisePayload{Name: ex.Name, Sets: make([]models.Set, 0, len(ex.Sets))}
		for _, set := range ex.Sets {
			reps, err := set.Reps.Int()
			if err != nil {
				return models.WorkoutPayload{}, fmt.Errorf("draft: %s set %d reps: %w", ex.Name, set.Number, err)
			}
			weight, err := set.Weight.Float()
			if err != nil {
				return models.WorkoutPayload{}, fmt.Errorf("draft: %s set %d weight: %w", ex.Name, set.Number, err)
			}
			wire.Sets = append(wire.Sets, models.Set{SetNumber: set.Number, Reps: reps, Weight: weight})
		}
		p.LoggedExercises = append(p.LoggedExercises, wire)
	}
	return p, nil
}

// FromWorkout builds an editable draft from a stored workout. Sets are
// sorted by set_number ascending, since the API does not guarantee order,
// and everything is copied so the draft never aliases the source.
func FromWorkout(w models.Workout) *Draft {
	d := &Draft{
		Username:    w.Username,
		WorkoutType: w.WorkoutType,
		Notes:       w.Notes,
	}
	if w.CreatedTime != nil {
		t := w.CreatedTime.Time
		d.CreatedTime = &t
	}
	for _, le := range w.LoggedExercises {
		sets := slices.Clone(le.Sets)
		slices.SortFunc(sets, func(a, b models.Set) int { return a.SetNumber - b.SetNumber })

		ex := LoggedExercise{Name: le.Exercise.Name, Sets: make([]Set, 0, len(sets))}
		for _, s := range sets {
			ex.Sets = append(ex.Sets, Set{
				Number: s.SetNumber,
				Reps:   IntField(s.Reps),
				Weight: FloatField(s.Weight),
			})
		}
		d.Exercises = append(d.Exercises, ex)
	}
	return d
}

// Clone returns a structurally independent copy of the draft.
func (d *Draft) Clone() *Draft {
	out := &Draft{
		Username:    d.Username,
		WorkoutType: d.WorkoutType,
		Notes:       d.Notes,
	}
	if d.CreatedTime != nil {
		t := *d.CreatedTime
		out.CreatedTime = &t
	}
	out.Exercises = make([]LoggedExercise, len(d.Exercises))
	for i, ex := range d.Exercises {
		out.Exercises[i] = LoggedExercise{Name: ex.Name, Sets: slices.Clone(ex.Sets)}
	}
	return out
}
