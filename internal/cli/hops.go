package cli

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// hopsCommand creates the hops command.
func (c *CLI) hopsCommand() *cobra.Command {
	var (
		flags analysisFlags
		all   bool
	)

	cmd := &cobra.Command{
		Use:   "hops [files...]",
		Short: "Print hop distances from an origin",
		Long: `Print hop distances from an origin.

Every person, place and period is listed with the number of family edges
between it and the origin, nearest first. Placeholders for unknown parents
are included. Use --edges to restrict which relations a hop may follow.`,
		Example: `  timeweave hops family.yaml --origin ada
  timeweave hops family.yaml --origin ada --edges parent,child --all`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, flags.noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			in, err := runner.Load(ctx, args, flags.generate)
			if err != nil {
				return err
			}
			origin, err := c.resolveOrigin(flags.origin, in)
			if err != nil {
				return err
			}

			prog := newProgress(loggerFromContext(ctx))
			hops, err := runner.Hops(ctx, in, origin, flags.edges)
			if err != nil {
				return err
			}
			g, err := in.Graph()
			if err != nil {
				return err
			}

			type row struct {
				id, name, kind string
				d              float64
				reachable      bool
			}
			var rows []row
			for _, p := range g.Persons() {
				reachable := hops.Finite(p.ID)
				if !reachable && !all {
					continue
				}
				rows = append(rows, row{p.ID, p.Identity.DisplayName(), string(p.Identity.Kind.Normalize()), hops.Distance(p.ID), reachable})
			}
			slices.SortStableFunc(rows, func(a, b row) int {
				if n := cmp.Compare(a.d, b.d); n != 0 {
					return n
				}
				return cmp.Compare(a.id, b.id)
			})
			prog.done(fmt.Sprintf("Measured %d identities", len(rows)))

			out := make([][]string, len(rows))
			for i, r := range rows {
				out[i] = []string{formatHops(r.d, r.reachable), r.id, r.name, r.kind}
			}
			writeTable(cmd.OutOrStdout(), []string{"Hops", "ID", "Name", "Kind"}, out)
			return nil
		},
	}

	flags.register(cmd, false)
	cmd.Flags().BoolVar(&all, "all", false, "include unreachable identities")

	return cmd
}
