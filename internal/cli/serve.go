package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timeweave/pkg/pipeline"
	"github.com/matzehuels/timeweave/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		maxHops  int
		generate bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Serve hop, trim and weight queries over HTTP",
		Long: `Serve hop, trim and weight queries over HTTP.

The input documents are loaded once and the family graph is built before
the server starts listening, so malformed input fails immediately.

Endpoints:
  GET /healthz
  GET /v1/hops?origin=ID&parent=BOOL&child=BOOL&marriage=BOOL&link=BOOL
  GET /v1/trim?origin=ID&max_hops=N&min_born=DATE
  GET /v1/weights?origin=ID&at=DATE[&at=DATE...]`,
		Example: `  timeweave serve family.yaml --addr :8080`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") {
				addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("max-hops") {
				maxHops = c.Config.maxHops(maxHops)
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			in, err := runner.Load(ctx, args, generate)
			if err != nil {
				return err
			}
			g, err := runner.Graph(ctx, in)
			if err != nil {
				return err
			}
			printSuccess("Loaded %d timelines, %d persons", len(in.Timelines), len(g.Persons()))
			printDetail("Listening on %s", addr)

			s := server.New(runner, in, loggerFromContext(ctx))
			s.MaxHops = maxHops
			return s.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().IntVar(&maxHops, "max-hops", pipeline.DefaultMaxHops, "hop limit for requests without max_hops")
	cmd.Flags().BoolVar(&generate, "generate", false, "add birth, death and marriage entries from identity data")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
