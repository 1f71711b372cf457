package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"

	"github.com/claude/replog/internal/models"
)

// UsersCmd groups user management subcommands.
type UsersCmd struct {
	List UsersListCmd `cmd:"" help:"List users" default:"1"`
	Add  UsersAddCmd  `cmd:"" help:"Register a new user (signup)"`
	Rm   UsersRmCmd   `cmd:"" help:"Delete a user"`
}

type UsersListCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

func (c *UsersListCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	users, err := a.client.ListUsers(context.Background())
	if err != nil {
		return err
	}

	if c.Format == "json" {
		data, err := json.MarshalIndent(users, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Username, u.Email)
	}
	return w.Flush()
}

type UsersAddCmd struct {
	Username string `help:"Username (prompted when omitted)"`
	Email    string `help:"Email address"`
	FullName string `help:"Full name"`
}

func (c *UsersAddCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	username, email, fullName := c.Username, c.Email, c.FullName
	var password string

	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&username))
	}
	if email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&email))
	}
	fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password))
	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return err
	}

	created, err := a.client.CreateUser(context.Background(), models.UserCreate{
		Username: username,
		Email:    email,
		FullName: fullName,
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Created user %s (%s)\n", created.Username, created.ID)
	return nil
}

type UsersRmCmd struct {
	ID uuid.UUID `arg:"" help:"User id"`
}

func (c *UsersRmCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.client.DeleteUser(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Println("Deleted")
	return nil
}
