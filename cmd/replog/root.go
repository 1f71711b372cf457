package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"

	"github.com/claude/replog/internal/api"
	"github.com/claude/replog/internal/config"
	"github.com/claude/replog/internal/session"
)

// CLI is the command tree.
type CLI struct {
	Version kong.VersionFlag `help:"Show version information"`
	Config  string           `help:"Path to config file" default:"~/.replog/config.yaml" type:"path" env:"REPLOG_CONFIG"`
	Verbose bool             `help:"Enable debug logging" short:"v"`

	Login  LoginCmd  `cmd:"" help:"Authenticate and store the session"`
	Logout LogoutCmd `cmd:"" help:"Forget the stored session"`
	Whoami WhoamiCmd `cmd:"" help:"Show the current session"`

	Users     UsersCmd     `cmd:"" help:"Manage users (list, add, rm)"`
	Exercises ExercisesCmd `cmd:"" help:"Browse the exercise catalog"`
	Workouts  WorkoutsCmd  `cmd:"" help:"Manage workouts (list, show, new, edit, rm, latest)"`
}

// app bundles what every command needs: config, the restored session, and
// the API client wired to it.
type app struct {
	cfg    *config.Config
	db     *session.StateDB
	sess   *session.Store
	client *api.Client
	log    *slog.Logger
}

// newApp loads config (the missing base URL is fatal here, before any
// command logic), opens the session state, and restores any stored session.
// An unopenable state dir degrades to an in-memory session.
func newApp(cli *CLI) (*app, error) {
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, err
	}

	db, err := session.OpenStateDB(cfg.State.Dir)
	if err != nil {
		log.Warn("session state unavailable, session will not persist", "error", err)
		db = nil
	}

	sess := session.NewStore(db, log)
	sess.Restore()

	client := api.New(cfg.API.BaseURL, sess, time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	return &app{cfg: cfg, db: db, sess: sess, client: client, log: log}, nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}
