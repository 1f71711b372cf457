package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/claude/replog/internal/draft"
	"github.com/claude/replog/internal/models"
)

// WorkoutsCmd groups workout subcommands.
type WorkoutsCmd struct {
	List   WorkoutsListCmd   `cmd:"" help:"List a user's workouts" default:"1"`
	Show   WorkoutsShowCmd   `cmd:"" help:"Show one workout"`
	Latest WorkoutsLatestCmd `cmd:"" help:"Show a user's most recent workout"`
	New    WorkoutsNewCmd    `cmd:"" help:"Log a new workout interactively"`
	Edit   WorkoutsEditCmd   `cmd:"" help:"Edit an existing workout interactively"`
	Rm     WorkoutsRmCmd     `cmd:"" help:"Delete a workout"`
}

// resolveUser picks the username for user-scoped commands: explicit flag
// first, then the session identity.
func resolveUser(a *app, flagUser string) (string, error) {
	if flagUser != "" {
		return flagUser, nil
	}
	if user, ok := a.sess.User(); ok {
		return user.Username, nil
	}
	return "", fmt.Errorf("no user given: pass --user or log in first")
}

type WorkoutsListCmd struct {
	User   string `help:"Username (defaults to the logged-in user)"`
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

func (c *WorkoutsListCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	username, err := resolveUser(a, c.User)
	if err != nil {
		return err
	}

	workouts, err := a.client.WorkoutsByUser(context.Background(), username)
	if err != nil {
		return err
	}

	if c.Format == "json" {
		data, err := json.MarshalIndent(workouts, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tTIME\tEXERCISES\tNOTES")
	for _, wk := range workouts {
		timeStr := ""
		if wk.CreatedTime != nil {
			timeStr = wk.CreatedTime.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", wk.ID, wk.WorkoutType, timeStr, len(wk.LoggedExercises), wk.Notes)
	}
	return w.Flush()
}

type WorkoutsShowCmd struct {
	ID uuid.UUID `arg:"" help:"Workout id"`
}

func (c *WorkoutsShowCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	wk, err := a.client.Workout(context.Background(), c.ID)
	if err != nil {
		return err
	}
	printWorkout(wk)
	return nil
}

type WorkoutsLatestCmd struct {
	User     string `help:"Username (defaults to the logged-in user)"`
	Category string `help:"Restrict to one workout category"`
}

func (c *WorkoutsLatestCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	username, err := resolveUser(a, c.User)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var wk *models.Workout
	if c.Category != "" {
		wk, err = a.client.LatestWorkoutByCategory(ctx, username, c.Category)
	} else {
		wk, err = a.client.LatestWorkout(ctx, username)
	}
	if err != nil {
		return err
	}
	printWorkout(wk)
	return nil
}

type WorkoutsNewCmd struct {
	User string `help:"Username (defaults to the logged-in user)"`
}

func (c *WorkoutsNewCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	username, err := resolveUser(a, c.User)
	if err != nil {
		return err
	}

	ctx := context.Background()
	categories, catalog := loadCatalog(ctx, a)

	d := draft.New(username)
	ed := &editor{
		d:          d,
		categories: categories,
		catalog:    catalog,
		submit: func(payload models.WorkoutPayload) error {
			_, err := a.client.CreateWorkout(ctx, payload)
			return err
		},
	}

	submitted, err := ed.run()
	if err != nil {
		return err
	}
	if submitted {
		fmt.Println("Workout created")
	} else {
		fmt.Println("Discarded")
	}
	return nil
}

type WorkoutsEditCmd struct {
	ID   *uuid.UUID `arg:"" optional:"" help:"Workout id (picked interactively when omitted)"`
	User string     `help:"Username used for the interactive picker"`
}

func (c *WorkoutsEditCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	var wk *models.Workout
	if c.ID != nil {
		wk, err = a.client.Workout(ctx, *c.ID)
		if err != nil {
			return err
		}
	} else {
		wk, err = pickWorkout(ctx, a, c.User)
		if err != nil {
			return err
		}
	}

	categories, catalog := loadCatalog(ctx, a)

	// FromWorkout copies and sorts; the fetched workout is never aliased
	// by the draft being edited.
	d := draft.FromWorkout(*wk)
	ed := &editor{
		d:          d,
		categories: categories,
		catalog:    catalog,
		submit: func(payload models.WorkoutPayload) error {
			_, err := a.client.UpdateWorkout(ctx, wk.ID, payload)
			return err
		},
	}

	submitted, err := ed.run()
	if err != nil {
		return err
	}
	if submitted {
		fmt.Println("Workout updated")
	} else {
		fmt.Println("Discarded")
	}
	return nil
}

type WorkoutsRmCmd struct {
	ID uuid.UUID `arg:"" help:"Workout id"`
}

func (c *WorkoutsRmCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.client.DeleteWorkout(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Println("Deleted")
	return nil
}

// loadCatalog fetches categories and the grouped exercise list. Catalog
// fetch failures degrade to free-text entry rather than blocking the form.
func loadCatalog(ctx context.Context, a *app) ([]string, map[string][]models.Exercise) {
	categories, err := a.client.ExerciseCategories(ctx)
	if err != nil {
		a.log.Warn("category list unavailable", "error", err)
		categories = nil
	}
	catalog, err := a.client.CategorizedExercises(ctx)
	if err != nil {
		a.log.Warn("exercise catalog unavailable", "error", err)
		catalog = nil
	}
	return categories, catalog
}

// pickWorkout presents the user's workouts and returns the chosen one.
func pickWorkout(ctx context.Context, a *app, flagUser string) (*models.Workout, error) {
	username, err := resolveUser(a, flagUser)
	if err != nil {
		return nil, err
	}
	workouts, err := a.client.WorkoutsByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, fmt.Errorf("no workouts found for %s", username)
	}

	opts := make([]huh.Option[int], 0, len(workouts))
	for i, wk := range workouts {
		label := wk.WorkoutType
		if wk.CreatedTime != nil {
			label += " @ " + wk.CreatedTime.String()
		}
		if wk.Notes != "" {
			label += " (" + wk.Notes + ")"
		}
		opts = append(opts, huh.NewOption(label, i))
	}

	var i int
	if err := runForm(huh.NewSelect[int]().Title("Workout to edit").Options(opts...).Value(&i)); err != nil {
		return nil, err
	}
	return &workouts[i], nil
}

func printWorkout(wk *models.Workout) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", wk.ID)
	fmt.Fprintf(w, "User:\t%s\n", wk.Username)
	fmt.Fprintf(w, "Type:\t%s\n", wk.WorkoutType)
	if wk.CreatedTime != nil {
		fmt.Fprintf(w, "Time:\t%s\n", wk.CreatedTime.String())
	}
	if wk.Notes != "" {
		fmt.Fprintf(w, "Notes:\t%s\n", wk.Notes)
	}
	for _, le := range wk.LoggedExercises {
		fmt.Fprintf(w, "%s\n", le.Exercise.Name)
		for _, set := range le.Sets {
			fmt.Fprintf(w, "  set %d\t%d reps × %g lb\n", set.SetNumber, set.Reps, set.Weight)
		}
	}
	w.Flush()
}
