// Command scenarioctl runs the scenario tools from the command line.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := newCLI(nil)
	err := c.command().ExecuteContext(ctx)
	c.Close()
	if err != nil {
		if !errors.Is(err, errRejected) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
