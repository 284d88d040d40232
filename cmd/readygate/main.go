package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonwraymond/readygate/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(cli.Options{})
	err := root.ExecuteContext(ctx)
	if err != nil {
		var exit *cli.ExitError
		// A bare exit code comes from the guarded command, which reported for itself.
		if !errors.As(err, &exit) || exit.Err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
	}
	stop()
	os.Exit(cli.ExitCode(err))
}
