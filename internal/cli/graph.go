package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timeweave/pkg/render/familydot"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    analysisFlags
		output   string
		format   string
		detailed bool
		hide     bool
	)

	cmd := &cobra.Command{
		Use:   "graph [files...]",
		Short: "Draw the family graph as SVG or DOT",
		Long: `Draw the family graph as SVG or DOT.

Persons are boxes, unions are dots between partners and children hang below
their parents' union. Placeholder parents are dashed. With --origin, every
identity is labeled and shaded by its hop distance.`,
		Example: `  timeweave graph family.yaml -o family.svg
  timeweave graph family.yaml --origin ada --detailed -f dot`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "svg" && format != "dot" {
				return fmt.Errorf("invalid format: %s (must be 'svg' or 'dot')", format)
			}
			ctx := cmd.Context()
			runner, in, err := c.loadInput(ctx, args, flags.generate)
			if err != nil {
				return err
			}
			defer runner.Close()

			g, err := runner.Graph(ctx, in)
			if err != nil {
				return err
			}
			opts := familydot.Options{Detailed: detailed, HidePlaceholders: hide}
			if flags.origin != "" {
				hops, err := runner.Hops(ctx, in, flags.origin, flags.edges)
				if err != nil {
					return err
				}
				opts.Hops = hops
			}

			sp := c.spin(cmd, "Drawing family graph...")
			data, err := drawGraph(ctx, familydot.ToDOT(g, opts), format, output)
			if err != nil {
				sp.fail("Drawing failed")
				return err
			}
			if output == "" {
				sp.stop()
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			sp.done("Drew %d persons", len(g.Persons()))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.origin, "origin", "", "shade identities by hop distance from this origin")
	cmd.Flags().StringSliceVar(&flags.edges, "edges", nil, "edges hops may cross: parent, child, marriage, link")
	cmd.Flags().BoolVar(&flags.generate, "generate", false, "add birth, death and marriage entries from identity data")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add kind and life dates to labels")
	cmd.Flags().BoolVar(&hide, "hide-placeholders", false, "leave placeholder parents out")

	return cmd
}

// drawGraph renders dot in the requested format and writes it to output
// when one is given.
func drawGraph(ctx context.Context, dot, format, output string) ([]byte, error) {
	data := []byte(dot)
	if format == "svg" {
		var err error
		if data, err = familydot.RenderSVG(ctx, dot); err != nil {
			return nil, err
		}
	}
	if output == "" {
		return data, nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", output, err)
	}
	return data, nil
}
