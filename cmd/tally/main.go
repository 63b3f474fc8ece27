package main

import (
	"fmt"
	"os"

	"github.com/pengelbrecht/tally/cmd/tally/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(cmd.ExitCode(err))
	}
}
