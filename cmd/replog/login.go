package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/claude/replog/internal/models"
)

// LoginCmd exchanges credentials for a token and stores the session.
type LoginCmd struct {
	Username string `help:"Username (prompted when omitted)" short:"u"`
	Password string `help:"Password (prompted when omitted; prefer the prompt)" short:"p"`
}

func (c *LoginCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	username, password := c.Username, c.Password
	var fields []huh.Field
	if username == "" {
		fields = append(fields, huh.NewInput().Title("Username").Value(&username))
	}
	if password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password))
	}
	if len(fields) > 0 {
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return err
		}
	}

	ctx := context.Background()
	tok, err := a.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Enrich the stored identity when the user record is readable; a bare
	// username is enough for the session otherwise.
	user := models.User{Username: username}
	if users, err := a.client.ListUsers(ctx); err == nil {
		for _, u := range users {
			if u.Username == username {
				user = u
				break
			}
		}
	}

	a.sess.Login(tok.AccessToken, user)
	fmt.Printf("Logged in as %s\n", username)
	return nil
}

// LogoutCmd clears the stored session.
type LogoutCmd struct{}

func (c *LogoutCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	a.sess.Logout()
	fmt.Println("Logged out")
	return nil
}

// WhoamiCmd shows the current session.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.Close()

	user, ok := a.sess.User()
	if !ok {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("Logged in as %s", user.Username)
	if user.Email != "" {
		fmt.Printf(" (%s)", user.Email)
	}
	fmt.Println()
	return nil
}
