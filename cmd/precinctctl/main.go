// precinctctl is the command-line client of the precinct analytics engine.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/turtacn/precinct-analytics/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	// Optional; PRECINCT_* variables override the config file.
	_ = godotenv.Load(".env.local")

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
