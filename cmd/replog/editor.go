package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/huh"

	"github.com/claude/replog/internal/draft"
	"github.com/claude/replog/internal/models"
)

// editor drives one draft through the interactive form loop. The draft is
// only ever mutated here; a failed submit leaves it intact so the loop can
// continue where the user left off.
type editor struct {
	d          *draft.Draft
	categories []string
	catalog    map[string][]models.Exercise
	submit     func(models.WorkoutPayload) error
}

// run loops until the draft is submitted or discarded. The returned bool
// reports whether a submit happened.
func (e *editor) run() (bool, error) {
	for {
		e.printDraft()

		action, err := e.pickAction()
		if err != nil {
			return false, err
		}

		switch {
		case action == "submit":
			payload, err := e.d.ToPayload()
			if err != nil {
				fmt.Printf("Not ready to submit: %v\n", err)
				continue
			}
			if err := e.submit(payload); err != nil {
				fmt.Printf("Submit failed: %v\n", err)
				continue
			}
			return true, nil
		case action == "discard":
			var sure bool
			if err := runForm(huh.NewConfirm().Title("Discard this workout?").Value(&sure)); err != nil {
				return false, err
			}
			if sure {
				return false, nil
			}
		case action == "category":
			if err := e.editCategory(); err != nil {
				return false, err
			}
		case action == "notes":
			if err := runForm(huh.NewText().Title("Notes").Value(&e.d.Notes)); err != nil {
				return false, err
			}
		case action == "time":
			if err := e.editTime(); err != nil {
				return false, err
			}
		case action == "add-exercise":
			e.d.AddExercise()
			if err := e.editExercise(len(e.d.Exercises) - 1); err != nil {
				return false, err
			}
		case strings.HasPrefix(action, "exercise:"):
			var i int
			fmt.Sscanf(action, "exercise:%d", &i)
			if err := e.editExercise(i); err != nil {
				return false, err
			}
		}
	}
}

func (e *editor) pickAction() (string, error) {
	opts := []huh.Option[string]{
		huh.NewOption("Set category", "category"),
		huh.NewOption("Edit notes", "notes"),
		huh.NewOption("Set date/time", "time"),
		huh.NewOption("Add exercise", "add-exercise"),
	}
	for i, ex := range e.d.Exercises {
		name := ex.Name
		if name == "" {
			name = "(unnamed exercise)"
		}
		opts = append(opts, huh.NewOption(fmt.Sprintf("Edit %s", name), fmt.Sprintf("exercise:%d", i)))
	}
	opts = append(opts,
		huh.NewOption("Submit workout", "submit"),
		huh.NewOption("Discard", "discard"),
	)

	var action string
	err := runForm(huh.NewSelect[string]().Title("Workout").Options(opts...).Value(&action))
	return action, err
}

func (e *editor) editCategory() error {
	if len(e.categories) == 0 {
		return runForm(huh.NewInput().Title("Workout type").Value(&e.d.WorkoutType))
	}
	sel := e.d.WorkoutType
	if err := runForm(huh.NewSelect[string]().
		Title("Workout type").
		Options(huh.NewOptions(e.categories...)...).
		Value(&sel)); err != nil {
		return err
	}
	e.d.WorkoutType = sel
	return nil
}

func (e *editor) editTime() error {
	raw := ""
	if e.d.CreatedTime != nil {
		raw = models.WireTime{Time: *e.d.CreatedTime}.String()
	}
	err := runForm(huh.NewInput().
		Title("Date and time (" + models.WireTimeLayout + ", empty to clear)").
		Value(&raw).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return nil
			}
			_, err := models.ParseWireTime(strings.TrimSpace(s))
			return err
		}))
	if err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		e.d.CreatedTime = nil
		return nil
	}
	t, err := models.ParseWireTime(raw)
	if err != nil {
		return err
	}
	e.d.CreatedTime = &t
	return nil
}

// editExercise runs the per-exercise submenu: name, sets, removal.
func (e *editor) editExercise(i int) error {
	for {
		if i < 0 || i >= len(e.d.Exercises) {
			return nil
		}
		ex := &e.d.Exercises[i]

		opts := []huh.Option[string]{
			huh.NewOption("Choose exercise", "name"),
			huh.NewOption("Add set", "add-set"),
		}
		for j, set := range ex.Sets {
			label := fmt.Sprintf("Edit set %d (%s reps × %s)", set.Number, orBlank(set.Reps.String()), orBlank(set.Weight.String()))
			opts = append(opts, huh.NewOption(label, fmt.Sprintf("set:%d", j)))
		}
		for j, set := range ex.Sets {
			opts = append(opts, huh.NewOption(fmt.Sprintf("Remove set %d", set.Number), fmt.Sprintf("rm-set:%d", j)))
		}
		opts = append(opts,
			huh.NewOption("Remove this exercise", "remove"),
			huh.NewOption("Done", "back"),
		)

		title := ex.Name
		if title == "" {
			title = "Exercise"
		}
		var action string
		if err := runForm(huh.NewSelect[string]().Title(title).Options(opts...).Value(&action)); err != nil {
			return err
		}

		switch {
		case action == "back":
			return nil
		case action == "name":
			if err := e.chooseExerciseName(ex); err != nil {
				return err
			}
		case action == "add-set":
			ex.AddSet()
		case action == "remove":
			e.d.RemoveExercise(i)
			return nil
		case strings.HasPrefix(action, "rm-set:"):
			var j int
			fmt.Sscanf(action, "rm-set:%d", &j)
			ex.RemoveSet(j)
		case strings.HasPrefix(action, "set:"):
			var j int
			fmt.Sscanf(action, "set:%d", &j)
			if err := editSet(ex, j); err != nil {
				return err
			}
		}
	}
}

func (e *editor) chooseExerciseName(ex *draft.LoggedExercise) error {
	if len(e.catalog) == 0 {
		return runForm(huh.NewInput().Title("Exercise name").Value(&ex.Name))
	}

	categories := make([]string, 0, len(e.catalog))
	for cat := range e.catalog {
		categories = append(categories, cat)
	}
	slices.Sort(categories)

	var opts []huh.Option[string]
	for _, cat := range categories {
		for _, entry := range e.catalog[cat] {
			opts = append(opts, huh.NewOption(fmt.Sprintf("%s (%s)", entry.Name, cat), entry.Name))
		}
	}

	sel := ex.Name
	if err := runForm(huh.NewSelect[string]().Title("Exercise").Options(opts...).Value(&sel)); err != nil {
		return err
	}
	ex.Name = sel
	return nil
}

// editSet edits reps and weight as raw text: an empty value is legal while
// editing and only rejected at submit time.
func editSet(ex *draft.LoggedExercise, j int) error {
	if j < 0 || j >= len(ex.Sets) {
		return nil
	}
	reps := ex.Sets[j].Reps.String()
	weight := ex.Sets[j].Weight.String()

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().Title(fmt.Sprintf("Set %d reps", ex.Sets[j].Number)).Value(&reps),
		huh.NewInput().Title(fmt.Sprintf("Set %d weight (lb)", ex.Sets[j].Number)).Value(&weight),
	)).Run()
	if err != nil {
		return err
	}

	ex.UpdateSet(j, draft.FieldReps, reps)
	ex.UpdateSet(j, draft.FieldWeight, weight)
	return nil
}

func (e *editor) printDraft() {
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "User:\t%s\n", e.d.Username)
	fmt.Fprintf(w, "Type:\t%s\n", orBlank(e.d.WorkoutType))
	fmt.Fprintf(w, "Notes:\t%s\n", orBlank(e.d.Notes))
	if e.d.CreatedTime != nil {
		fmt.Fprintf(w, "Time:\t%s\n", models.WireTime{Time: *e.d.CreatedTime}.String())
	}
	for _, ex := range e.d.Exercises {
		fmt.Fprintf(w, "%s\n", orBlank(ex.Name))
		for _, set := range ex.Sets {
			fmt.Fprintf(w, "  set %d\t%s reps × %s lb\n", set.Number, orBlank(set.Reps.String()), orBlank(set.Weight.String()))
		}
	}
	w.Flush()
	fmt.Println()
}

func orBlank(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func runForm(field huh.Field) error {
	return huh.NewForm(huh.NewGroup(field)).Run()
}
