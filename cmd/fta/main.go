package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	ftaerrors "fta/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", describe(err))
		os.Exit(1)
	}
}

// describe strips the [CODE] prefix for coded errors and appends the first
// suggested fix, if any.
func describe(err error) string {
	var fe *ftaerrors.FtaError
	if !errors.As(err, &fe) || fe.Code == ftaerrors.ScoreCapExceeded {
		return err.Error()
	}
	msg := fe.Message
	if cause := fe.Unwrap(); cause != nil {
		msg += ": " + cause.Error()
	}
	if len(fe.SuggestedFixes) > 0 && fe.SuggestedFixes[0].Description != "" {
		msg += "\n  hint: " + fe.SuggestedFixes[0].Description
	}
	return msg
}
