// Package main is the entry point for the lighthub CLI.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/thoreinstein/lighthub/cmd/lighthub/commands"
	"github.com/thoreinstein/lighthub/internal/errors"
)

func main() {
	err := commands.Execute()
	if err != nil {
		printError(err)
	}
	os.Exit(errors.ExitCode(err))
}

func printError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)

	var exitErr *errors.ExitError
	if errors.As(err, &exitErr) && exitErr.Suggestion != "" && exitErr.Err != nil {
		fmt.Fprintln(os.Stderr, exitErr.Suggestion)
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintln(os.Stderr, hint)
	}
}
