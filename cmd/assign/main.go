package main

import (
	"fmt"
	"os"

	"github.com/arnavshah/roster-assign-go/internal/cli"
	"github.com/arnavshah/roster-assign-go/internal/config"
)

func main() {
	// Load .env if it exists
	config.LoadDotEnv()

	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
