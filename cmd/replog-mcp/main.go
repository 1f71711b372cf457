package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/replog/internal/api"
	"github.com/claude/replog/internal/config"
	"github.com/claude/replog/internal/mcp"
	"github.com/claude/replog/internal/session"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to config file")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("replog-mcp", Version)
		return
	}

	// Logs go to stderr: stdout carries the MCP stdio protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := session.OpenStateDB(cfg.State.Dir)
	if err != nil {
		log.Warn("session state unavailable, serving unauthenticated", "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	sess := session.NewStore(db, log)
	sess.Restore()

	client := api.New(cfg.API.BaseURL, sess, time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	s := mcp.New(client, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server exited", "error", err)
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return home + "/.replog/config.yaml"
}
