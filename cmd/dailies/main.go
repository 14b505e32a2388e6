package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"dailies/internal/services"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, formatError(err))
		}
		os.Exit(services.ExitCode(err))
	}
}

func formatError(err error) string {
	details := services.Details(err)
	if details.Kind == "" {
		return "error: " + details.Message
	}
	return fmt.Sprintf("error (%s): %s", details.Kind, details.Message)
}
