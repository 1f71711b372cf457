package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"text/tabwriter"
)

// ExercisesCmd groups catalog subcommands. The catalog is read-only here;
// exercises are referenced by name when logging workouts.
type ExercisesCmd struct {
	List       ExercisesListCmd       `cmd:"" help:"List exercises" default:"1"`
	Categories ExercisesCategoriesCmd `cmd:"" help:"List the distinct category names"`
}

type ExercisesListCmd struct {
	ByCategory bool `help:"Group by category" short:"c"`
}

func (c *ExercisesListCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	if c.ByCategory {
		grouped, err := a.client.CategorizedExercises(ctx)
		if err != nil {
			return err
		}
		categories := make([]string, 0, len(grouped))
		for cat := range grouped {
			categories = append(categories, cat)
		}
		slices.Sort(categories)
		for _, cat := range categories {
			fmt.Println(cat)
			for _, e := range grouped[cat] {
				fmt.Printf("  %s\n", e.Name)
			}
		}
		return nil
	}

	exercises, err := a.client.ListExercises(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY")
	for _, e := range exercises {
		fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Category)
	}
	return w.Flush()
}

type ExercisesCategoriesCmd struct{}

func (c *ExercisesCategoriesCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	categories, err := a.client.ExerciseCategories(context.Background())
	if err != nil {
		return err
	}
	for _, cat := range categories {
		fmt.Println(cat)
	}
	return nil
}
