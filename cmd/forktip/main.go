package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"forktip.dev/forktip/internal/cli"
	forktiperrors "forktip.dev/forktip/internal/errors"
)

// Exit codes
const (
	exitOK         = 0
	exitFatal      = 1
	exitUnexpected = 2
	exitInterrupt  = 3
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() (code int) {
	// Safety net: an unexpected internal exit is distinguishable from a
	// reported fatal error.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "forktip: internal error: %v\n", r)
			code = exitUnexpected
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(version, commit, date)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "forktip: interrupted")
		return exitInterrupt
	}

	if errors.Is(err, forktiperrors.ErrConflictPause) {
		// Already reported with operator instructions; the non-zero exit
		// signals the pause.
		return exitFatal
	}

	fmt.Fprintf(os.Stderr, "forktip: %v\n", err)
	return exitFatal
}
