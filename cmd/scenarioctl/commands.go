package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/danny-zent/mock-itr-scenario-mcp/engine/assign"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/scenario"
	"github.com/danny-zent/mock-itr-scenario-mcp/engine/tools"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/config"
	"github.com/danny-zent/mock-itr-scenario-mcp/pkg/natsutil"
)

func (c *cli) toolsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := tools.New(tools.Deps{}).Tools()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), map[string]any{"tools": list})
			}
			for _, t := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", t.Name, t.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print names, descriptions and input schemas as JSON")
	return cmd
}

// readSource returns the bytes behind s: "-" reads stdin, "@path" reads a
// file, anything else is taken literally.
func readSource(cmd *cobra.Command, s string) ([]byte, error) {
	switch {
	case s == "-":
		return io.ReadAll(cmd.InOrStdin())
	case strings.HasPrefix(s, "@"):
		return os.ReadFile(strings.TrimPrefix(s, "@"))
	}
	return []byte(s), nil
}

func (c *cli) callCmd() *cobra.Command {
	var raw string
	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Call a tool with a JSON object of arguments",
		Example: `  scenarioctl call scenario_build_normal --args '{"total_refund":1500000}'
  scenarioctl call scenario_validate --args @scenario.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := tools.Args{}
			if raw != "" {
				b, err := readSource(cmd, raw)
				if err != nil {
					return err
				}
				data, err := scenario.ParseText(b)
				if err != nil {
					return fmt.Errorf("--args must be a JSON object: %w", err)
				}
				in = tools.Args(data)
			}
			return c.dispatch(cmd, args[0], in)
		},
	}
	cmd.Flags().StringVar(&raw, "args", "", `arguments as JSON, "@file" or "-" for stdin`)
	return cmd
}

func (c *cli) resourceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resource [uri]",
		Short: "List resources, or read one by URI",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := c.load(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), map[string]any{"resources": a.Tools.Resources()})
			}
			out, err := a.Tools.ReadResource(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var (
		url     string
		subject string
		count   int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print assignment events as they are published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _ := config.Load()
			if url == "" {
				url = cfg.Store.NATSURL
			}
			if subject == "" {
				subject = cfg.EventsSubject
			}
			if subject == "" {
				return fmt.Errorf("no events subject: set --subject or NATS_EVENTS_SUBJECT")
			}
			nc, err := nats.Connect(url, nats.Name("scenarioctl-watch"))
			if err != nil {
				return fmt.Errorf("nats connect: %w", err)
			}
			defer nc.Close()

			events := make(chan assign.Event, 16)
			sub, err := natsutil.Subscribe(nc, subject, func(_ context.Context, ev assign.Event) {
				events <- ev
			})
			if err != nil {
				return err
			}
			defer sub.Unsubscribe()
			if err := nc.Flush(); err != nil {
				return err
			}

			for seen := 0; count <= 0 || seen < count; seen++ {
				select {
				case ev := <-events:
					b, err := json.Marshal(ev)
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), string(b))
				case <-cmd.Context().Done():
					return nil
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "nats-url", "", "NATS server (default NATS_URL)")
	cmd.Flags().StringVar(&subject, "subject", "", "subject (default NATS_EVENTS_SUBJECT)")
	cmd.Flags().IntVar(&count, "count", 0, "exit after this many events (0 runs until interrupted)")
	return cmd
}

// toolCmd exposes t as a subcommand with one flag per schema property.
func (c *cli) toolCmd(t tools.Tool) *cobra.Command {
	props, _ := t.InputSchema["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	cmd := &cobra.Command{
		Use:   t.Name,
		Short: t.Description,
		Args:  cobra.NoArgs,
	}
	types := make(map[string]string, len(names))
	for _, name := range names {
		p, _ := props[name].(map[string]any)
		typ, _ := p["type"].(string)
		desc, _ := p["description"].(string)
		types[name] = typ
		switch typ {
		case "integer":
			cmd.Flags().Int64(name, 0, desc)
		case "number":
			cmd.Flags().Float64(name, 0, desc)
		case "object", "array":
			cmd.Flags().String(name, "", desc+` (JSON, "@file" or "-")`)
		default:
			cmd.Flags().String(name, "", desc)
		}
	}

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		args := tools.Args{}
		var ferr error
		cmd.Flags().Visit(func(f *pflag.Flag) {
			if ferr != nil {
				return
			}
			typ, ok := types[f.Name]
			if !ok {
				return
			}
			args[f.Name], ferr = flagValue(cmd, f, typ)
		})
		if ferr != nil {
			return ferr
		}
		return c.dispatch(cmd, t.Name, args)
	}
	return cmd
}

func flagValue(cmd *cobra.Command, f *pflag.Flag, typ string) (any, error) {
	switch typ {
	case "integer":
		return cmd.Flags().GetInt64(f.Name)
	case "number":
		return cmd.Flags().GetFloat64(f.Name)
	case "object", "array":
		b, err := readSource(cmd, f.Value.String())
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("--%s: %w", f.Name, err)
		}
		if m, ok := v.(map[string]any); ok {
			return scenario.Normalize(m), nil
		}
		return v, nil
	}
	return f.Value.String(), nil
}
