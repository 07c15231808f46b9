package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/cclauss/codespell/internal/cmd"
)

// Exit statuses, following the BSD sysexits convention the original
// codespell uses.
const (
	exitOK      = 0
	exitUsage   = 64
	exitDataErr = 65
)

func main() {
	rootCmd := cmd.NewRootCommand()

	err := rootCmd.Execute()
	switch {
	case err == nil:
		os.Exit(exitOK)
	case errors.Is(err, cmd.ErrFound):
		os.Exit(exitDataErr)
	case errors.Is(err, cmd.ErrUsage):
		// message and help already printed
		os.Exit(exitUsage)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
}
