package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/app"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/tools"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/config"
)

// errRejected marks a tool call whose input was rejected. The payload has
// already been printed.
var errRejected = errors.New("tool rejected input")

// builder creates the App a command runs against.
type builder func(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app.App, error)

type cli struct {
	build  builder
	cfg    config.Config
	logger *slog.Logger

	store   string
	verbose bool
	app     *app.App
}

func newCLI(build builder) *cli {
	if build == nil {
		build = app.Build
	}
	return &cli{build: build}
}

// command returns the root command.
func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:           "scenarioctl",
		Short:         "Build, validate and assign mock income-tax refund scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.store, "store", "", "override SCENARIO_STORE (dynamodb, postgres, neo4j, nats, memory)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(c.toolsCmd(), c.callCmd(), c.resourceCmd(), c.watchCmd())

	// One subcommand per tool, flags generated from its input schema.
	for _, t := range tools.New(tools.Deps{}).Tools() {
		root.AddCommand(c.toolCmd(t))
	}
	return root
}

// Close releases the App if a command built one.
func (c *cli) Close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

// load builds the App on first use.
func (c *cli) load(cmd *cobra.Command) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	cfg, warnings := config.Load()
	if c.store != "" {
		cfg.Store.Kind = c.store
	}
	var out io.Writer = io.Discard
	if c.verbose {
		out = os.Stderr
	}
	c.logger = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: cfg.Level()}))
	for _, w := range warnings {
		c.logger.Warn(w)
	}
	c.cfg = cfg
	a, err := c.build(cmd.Context(), cfg, c.logger)
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := scenario.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// dispatch runs a tool and prints its result or rejection payload.
func (c *cli) dispatch(cmd *cobra.Command, name string, args tools.Args) error {
	a, err := c.load(cmd)
	if err != nil {
		return err
	}
	out, isErr, err := a.Tools.Dispatch(cmd.Context(), name, args)
	if err != nil {
		return err
	}
	if err := printJSON(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if isErr {
		return errRejected
	}
	return nil
}
