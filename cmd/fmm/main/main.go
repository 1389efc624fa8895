package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fossmodmanager/fmm/cmd/fmm"
	"github.com/fossmodmanager/fmm/pkg/errors"
	"github.com/fossmodmanager/fmm/pkg/ui/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := fmm.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()

		// Print the error in red
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))

		// Usage mistakes get the help text, failed operations a retry hint
		switch errors.GetErrorCode(err) {
		case errors.ErrUnknown:
			fmt.Fprintln(os.Stderr)
			_ = rootCmd.Help()
		case errors.ErrIOFailure, errors.ErrCanceled:
			fmt.Fprintln(os.Stderr, styles.Render("Muted", "Nothing was rolled back; running the command again picks up where it stopped."))
		}
		os.Exit(1)
	}
}
