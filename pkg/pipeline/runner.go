package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/timeweave/pkg/cache"
	"github.com/matzehuels/timeweave/pkg/errors"
	"github.com/matzehuels/timeweave/pkg/frames"
	"github.com/matzehuels/timeweave/pkg/identity"
	"github.com/matzehuels/timeweave/pkg/observability"
	"github.com/matzehuels/timeweave/pkg/report"
	"github.com/matzehuels/timeweave/pkg/timeline"
	"github.com/matzehuels/timeweave/pkg/universe"
)

// Runner executes analyses with caching. It holds no per-run state, so one
// Runner may be used from several goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default keyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Load reads timeline documents. Identity references may cross files.
// With generate set, birth, death and marriage entries are derived from
// identity data.
func (r *Runner) Load(ctx context.Context, paths []string, generate bool) (*Input, error) {
	start := time.Now()
	in, err := load(paths, generate)
	n := 0
	if in != nil {
		n = len(in.Timelines)
	}
	observability.Pipeline().OnLoad(ctx, len(paths), n, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("loaded timelines", "files", len(paths), "timelines", n, "duration", time.Since(start))
	return in, nil
}

func load(paths []string, generate bool) (*Input, error) {
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input files")
	}
	merged := &timeline.Document{}
	raw := make([][]byte, 0, len(paths)+1)
	for _, p := range paths {
		doc, data, err := timeline.ReadFile(p)
		if err != nil {
			return nil, err
		}
		merged.Merge(doc)
		raw = append(raw, data)
	}
	if generate {
		raw = append(raw, []byte("generate"))
	}

	timelines, err := merged.Build()
	if err != nil {
		return nil, err
	}
	if generate {
		timeline.GenerateLifeEvents(timelines)
	}
	return &Input{Files: paths, Hash: cache.HashAll(raw...), Timelines: timelines}, nil
}

// Graph returns the input's identity graph.
func (r *Runner) Graph(ctx context.Context, in *Input) (*identity.Graph, error) {
	start := time.Now()
	g, err := in.Graph()
	persons, placeholders := 0, 0
	if g != nil {
		persons, placeholders = len(g.Persons()), g.PlaceholderCount()
	}
	observability.Pipeline().OnBuildComplete(ctx, persons, placeholders, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	return g, nil
}

// Hops computes hop distances from origin. Empty edges use the default for
// the origin's kind.
func (r *Runner) Hops(ctx context.Context, in *Input, origin string, edges []string) (identity.Hops, error) {
	g, err := r.Graph(ctx, in)
	if err != nil {
		return nil, err
	}
	root, ok := g.Resolve(origin)
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownOrigin, "origin %q is not a known identity", origin)
	}
	custom, err := ParseEdges(edges)
	if err != nil {
		return nil, err
	}
	opts := *hopOptionsFor(g, root, custom)

	key := r.Keyer.HopsKey(in.Hash, origin, HopsKeyOpts(opts))
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var ds report.Distances
		if json.Unmarshal(data, &ds) == nil {
			observability.Cache().OnCacheHit(ctx, "hops")
			return ds.Hops(), nil
		}
	}
	observability.Cache().OnCacheMiss(ctx, "hops")

	start := time.Now()
	hops := g.CalculateHopsFrom(root, opts)
	observability.Pipeline().OnHops(ctx, root, reachable(hops), time.Since(start))

	if data, err := json.Marshal(report.FromHops(hops)); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLHops); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "hops", len(data))
		}
	}
	return hops, nil
}

func hopOptionsFor(g *identity.Graph, root string, custom *identity.HopOptions) *identity.HopOptions {
	if custom != nil {
		return custom
	}
	opts := identity.AllHops
	if ident, ok := g.Identity(root); ok {
		opts = identity.DefaultHopOptions(ident.Kind)
	}
	return &opts
}

func reachable(h identity.Hops) int {
	n := 0
	for _, d := range h {
		if !math.IsInf(d, 1) {
			n++
		}
	}
	return n
}

// Analyze trims the input around opts.Origin, weights the retained
// timelines and probes the weighted frames.
func (r *Runner) Analyze(ctx context.Context, in *Input, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	runID := uuid.NewString()
	logger := opts.Logger.With("run", runID)

	key := r.Keyer.ReportKey(in.Hash, opts.ReportKeyOpts())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if rep, err := report.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "report")
				rep.RunID = runID
				logger.Debug("report from cache", "origin", opts.Origin)
				return &Result{Report: rep, CacheInfo: CacheInfo{ReportHit: true}}, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	trimOpts, err := opts.TrimOptions()
	if err != nil {
		return nil, err
	}

	result := &Result{}
	start := time.Now()
	tr, err := universe.TrimUniverse(in.Timelines, opts.Origin, trimOpts)
	result.Stats.TrimTime = time.Since(start)
	if err != nil {
		observability.Pipeline().OnTrim(ctx, opts.Origin, 0, 0, result.Stats.TrimTime, err)
		return nil, fmt.Errorf("trim: %w", err)
	}
	observability.Pipeline().OnTrim(ctx, tr.Origin, len(tr.Retained), len(tr.Trimmed), result.Stats.TrimTime, nil)
	result.Trim = tr

	logger.Info("trimmed universe",
		"origin", tr.Origin,
		"retained", len(tr.Retained),
		"trimmed", len(tr.Trimmed),
		"placeholders", tr.Graph.PlaceholderCount(),
		"duration", result.Stats.TrimTime)

	start = time.Now()
	weights := tr.Weights()
	originTL, _ := timeline.FindByIdentity(in.Timelines, tr.Origin)
	all := in.Frames()
	probes, _ := opts.probeMillis()
	probed := frames.ProbeAll(frames.FromFrames(all, tr.Retained, weights, originTL), probes)
	result.Stats.FramesTime = time.Since(start)
	observability.Pipeline().OnFrames(ctx, len(all), result.Stats.FramesTime)

	result.Report = newReport(runID, in, opts, tr, weights, len(all), probes, probed)

	if data, err := json.Marshal(result.Report); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLReport); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "report", len(data))
		}
	}
	return result, nil
}

// Execute loads paths and analyzes them in one go.
func (r *Runner) Execute(ctx context.Context, paths []string, generate bool, opts Options) (*Input, *Result, error) {
	in, err := r.Load(ctx, paths, generate)
	if err != nil {
		return nil, nil, fmt.Errorf("load: %w", err)
	}
	res, err := r.Analyze(ctx, in, opts)
	if err != nil {
		return in, nil, err
	}
	return in, res, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func newReport(runID string, in *Input, opts Options, tr *universe.Trim, weights []float64, frameCount int, probes []int64, probed [][]float64) *report.Report {
	rep := &report.Report{
		RunID:           runID,
		InputHash:       in.Hash,
		Origin:          tr.Origin,
		MaxHops:         opts.MaxHops,
		MinBorn:         opts.MinBorn,
		Persons:         tr.PersonsCount,
		PersonsRetained: tr.PersonsRetainedCount,
		Placeholders:    tr.Graph.PlaceholderCount(),
		Frames:          frameCount,
		Hops:            report.FromHops(tr.Hops),
		Retained:        make([]report.Timeline, 0, len(tr.Retained)),
		Trimmed:         make([]report.Timeline, 0, len(tr.Trimmed)),
	}
	for i, t := range tr.Retained {
		entry := describe(t, tr.Hops)
		entry.Weight = weights[i]
		rep.Retained = append(rep.Retained, entry)
	}
	for _, t := range tr.Trimmed {
		rep.Trimmed = append(rep.Trimmed, describe(t, tr.Hops))
	}
	for i, at := range probes {
		rep.Probes = append(rep.Probes, report.Probe{
			At:      at,
			Date:    time.UnixMilli(at).UTC().Format("2006-01-02"),
			Weights: probed[i],
		})
	}
	return rep
}

func describe(t *timeline.Timeline, hops identity.Hops) report.Timeline {
	entry := report.Timeline{Title: t.Label(), Hops: report.Distance(math.Inf(1))}
	if ident := t.Identity(); ident != nil {
		entry.Identity = ident.ID
		entry.Kind = string(ident.Kind.Normalize())
		entry.Solid = ident.Kind.Solid()
		entry.Hops = report.Distance(hops.Distance(ident.ID))
	}
	return entry
}
