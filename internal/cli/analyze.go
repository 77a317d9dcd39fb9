package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/pipeline"
	"github.com/matzehuels/timeweave/pkg/report"
	"github.com/matzehuels/timeweave/pkg/timeline"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// analysisFlags are the flags shared by commands that trim around an origin.
type analysisFlags struct {
	origin   string
	maxHops  int
	minBorn  string
	edges    []string
	generate bool
	noCache  bool
}

// register adds the flags to cmd. Trim flags are skipped for commands that
// only measure distances.
func (f *analysisFlags) register(cmd *cobra.Command, trim bool) {
	cmd.Flags().StringVar(&f.origin, "origin", "", "origin identity id (prompted when omitted on a terminal)")
	cmd.Flags().StringSliceVar(&f.edges, "edges", nil, "edges hops may cross: parent, child, marriage, link (default depends on origin kind)")
	cmd.Flags().BoolVar(&f.generate, "generate", false, "add birth, death and marriage entries from identity data")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	if trim {
		cmd.Flags().IntVar(&f.maxHops, "max-hops", pipeline.DefaultMaxHops, "largest hop distance of retained identities (negative: unlimited)")
		cmd.Flags().StringVar(&f.minBorn, "min-born", "", "drop identities born before this date")
	}
}

// options resolves the analysis options, filling unset flags from the
// config file and, as a last resort for the origin, the interactive picker.
func (c *CLI) options(cmd *cobra.Command, f *analysisFlags, in *pipeline.Input) (pipeline.Options, error) {
	opts := pipeline.Options{
		Origin:  f.origin,
		MaxHops: f.maxHops,
		MinBorn: f.minBorn,
		Edges:   f.edges,
		Logger:  loggerFromContext(cmd.Context()),
	}
	if !cmd.Flags().Changed("max-hops") {
		opts.MaxHops = c.Config.maxHops(opts.MaxHops)
	}
	if !cmd.Flags().Changed("min-born") && c.Config.MinBorn != "" {
		opts.MinBorn = c.Config.MinBorn
	}

	origin, err := c.resolveOrigin(f.origin, in)
	if err != nil {
		return opts, err
	}
	opts.Origin = origin
	return opts, nil
}

func (c *CLI) resolveOrigin(flag string, in *pipeline.Input) (string, error) {
	switch {
	case flag != "":
		return flag, nil
	case c.Config.Origin != "":
		return c.Config.Origin, nil
	case interactive():
		return pickOrigin(timeline.Identities(in.Timelines))
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "--origin is required")
}

// analyzeCommand creates the analyze command.
func (c *CLI) analyzeCommand() *cobra.Command {
	var (
		flags   analysisFlags
		probes  []string
		format  string
		output  string
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Trim and weigh timelines around an origin",
		Long: `Trim and weigh timelines around an origin.

The analyze command links all identities of the input documents into one
family graph, measures how many hops every identity is from the origin and
drops the timelines of solid identities (persons, locations, periods) that
are too far away or born too early. Retained timelines get a weight that
falls with distance. With --probe, the cumulative weights at the given
dates are reported as well.

Reports are cached by input content and options.`,
		Example: `  timeweave analyze family.yaml --origin ada
  timeweave analyze family.yaml places.toml --origin ada --max-hops 2 --probe 1843 --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatTable, formatJSON, formatYAML:
			default:
				return fmt.Errorf("invalid format: %s (must be 'table', 'json' or 'yaml')", format)
			}
			return c.runAnalyze(cmd, args, &flags, probes, format, output, refresh)
		},
	}

	flags.register(cmd, true)
	cmd.Flags().StringSliceVar(&probes, "probe", nil, "report cumulative weights at these dates")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the report to a file")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached report exists")

	return cmd
}

func (c *CLI) runAnalyze(cmd *cobra.Command, files []string, flags *analysisFlags, probes []string, format, output string, refresh bool) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	in, err := runner.Load(ctx, files, flags.generate)
	if err != nil {
		return err
	}
	opts, err := c.options(cmd, flags, in)
	if err != nil {
		return err
	}
	opts.Probes = probes
	opts.Refresh = refresh

	sp := c.spin(cmd, fmt.Sprintf("Trimming around %s...", opts.Origin))
	res, err := runner.Analyze(ctx, in, opts)
	if err != nil {
		sp.fail("Analysis failed")
		return err
	}

	switch {
	case output != "":
		sp.stop()
		return writeReportFile(res.Report, format, output)
	case format != formatTable:
		sp.stop()
		return report.Write(cmd.OutOrStdout(), res.Report, report.Format(format))
	}
	sp.done("Trimmed around %s", StyleNumber.Render(res.Report.Origin))
	printReport(res)
	return nil
}

func writeReportFile(rep *report.Report, format, path string) error {
	if format == formatTable {
		format = formatJSON
	}
	data, err := report.Marshal(rep, report.Format(format))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Report written")
	printFile(path)
	return nil
}

func printReport(res *pipeline.Result) {
	rep := res.Report
	printTrimStats(len(rep.Retained), len(rep.Trimmed), rep.Placeholders, res.CacheInfo.ReportHit)
	fmt.Println()

	printKeyValue("Persons", fmt.Sprintf("%d of %d retained", rep.PersonsRetained, rep.Persons))
	maxHops := "unlimited"
	if rep.MaxHops >= 0 {
		maxHops = fmt.Sprint(rep.MaxHops)
	}
	printKeyValue("Max hops", maxHops)
	if rep.MinBorn != "" {
		printKeyValue("Min born", rep.MinBorn)
	}
	printKeyValue("Frames", fmt.Sprint(rep.Frames))
	printKeyValue("Run", rep.RunID)
	fmt.Println()

	headers := []string{"Timeline", "Identity", "Kind", "Hops", "Weight"}
	for _, p := range rep.Probes {
		headers = append(headers, "@"+p.Date)
	}
	rows := make([][]string, 0, len(rep.Retained))
	for i, t := range rep.Retained {
		row := []string{t.Title, t.Identity, t.Kind, formatHops(float64(t.Hops), !t.Hops.Unreachable()), formatWeight(t.Weight)}
		if t.Identity == "" {
			row[3] = "—"
		}
		for _, p := range rep.Probes {
			row = append(row, formatWeight(p.Weights[i]))
		}
		rows = append(rows, row)
	}
	writeTable(os.Stdout, headers, rows)

	if len(rep.Trimmed) > 0 {
		printInfo("Trimmed")
		for _, t := range rep.Trimmed {
			printDetail("%s (%s hops)", t.Title, formatHops(float64(t.Hops), !t.Hops.Unreachable()))
		}
	}
	fmt.Println()
	printNextStep("Draw the family graph", "timeweave graph <files> --origin "+rep.Origin)
}

// loadInput loads files with a null-cache runner for commands that do not
// cache their own results.
func (c *CLI) loadInput(ctx context.Context, files []string, generate bool) (*pipeline.Runner, *pipeline.Input, error) {
	runner, err := c.newRunner(ctx, true)
	if err != nil {
		return nil, nil, err
	}
	in, err := runner.Load(ctx, files, generate)
	if err != nil {
		return nil, nil, err
	}
	return runner, in, nil
}
