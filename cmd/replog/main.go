package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("replog"),
		kong.Description("Log workouts against a remote workout API."),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	if err := ctx.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
