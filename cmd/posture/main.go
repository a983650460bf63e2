package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the CLI and maps the outcome to a process exit status:
// 0 on success, 1 when the scan policy or validation fails, 2 for any other
// error (bad flags, unreadable files).
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUnhealthy):
		// The result has already been rendered.
		return 1
	case errors.Is(err, errEnforcementFailed):
		fmt.Fprintln(stderr, err)
		return 1
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return 2
	}
}
