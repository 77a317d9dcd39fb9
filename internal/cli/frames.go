package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timeweave/pkg/frames"
	"github.com/matzehuels/timeweave/pkg/timeline"
	"github.com/matzehuels/timeweave/pkg/universe"
)

// framesCommand creates the frames command.
func (c *CLI) framesCommand() *cobra.Command {
	var (
		flags analysisFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "frames [files...]",
		Short: "Walk the weighted frames in time order",
		Long: `Walk the weighted frames in time order.

A frame gathers every entry that happens at one instant. Walking the frames
of the retained timelines, each timeline's weight grows by its baseline
weight for every title it shares with the origin's timeline. One line is
printed per frame with the timelines whose weight changed.`,
		Example: `  timeweave frames family.yaml --origin ada --limit 20`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, in, err := c.loadInput(ctx, args, flags.generate)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts, err := c.options(cmd, &flags, in)
			if err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			trimOpts, err := opts.TrimOptions()
			if err != nil {
				return err
			}
			tr, err := universe.TrimUniverse(in.Timelines, opts.Origin, trimOpts)
			if err != nil {
				return err
			}

			origin, _ := timeline.FindByIdentity(in.Timelines, tr.Origin)
			w := frames.FromFrames(in.Frames(), tr.Retained, tr.Weights(), origin)
			printFrames(w, limit)
			return nil
		},
	}

	flags.register(cmd, true)
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many frames (0: all)")

	return cmd
}

func printFrames(w *frames.Weighted, limit int) {
	timelines := w.Timelines()
	prev := w.Current()
	rows := [][]string{}
	for wf := range w.All() {
		var changed []string
		for i, weight := range wf.Weights {
			if weight != prev[i] {
				changed = append(changed, fmt.Sprintf("%s=%s", timelines[i].Label(), formatWeight(weight)))
			}
		}
		prev = wf.Weights
		rows = append(rows, []string{
			time.UnixMilli(wf.At).UTC().Format("2006-01-02"),
			strings.Join(wf.Frame.Titles(), ", "),
			strings.Join(changed, " "),
		})
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	writeTable(os.Stdout, []string{"Date", "Titles", "Weights"}, rows)
}
