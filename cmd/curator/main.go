package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"curator/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process exit status: 0 on success,
// 2 for configuration and validation failures (bad config, unloadable
// taxonomy), 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case services.Fatal(err):
		return 2
	default:
		return 1
	}
}
