package main

import (
	"context"
	"fmt"
	"os"

	"github.com/trebuchet-org/sling/internal/cli"
	"github.com/trebuchet-org/sling/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	config.SetBuildFlags(version, commit, date)

	if err := cli.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
