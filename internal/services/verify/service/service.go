// Package service implements the verification pass over the snapshot
// directories. The baseline and current listings are unioned, every name
// is classified independently, and per-item failures never abort the
// batch
package service

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	snapcfg "snapgate/internal/config"
	"snapgate/internal/core/pixel"
	"snapgate/internal/platform/logger"
	dom "snapgate/internal/services/verify/domain"
)

// Config for the verification runner
type Config struct {
	BaselineDir string
	CurrentDir  string
	DiffDir     string
	// Threshold is the max mismatched-pixel ratio that still passes
	Threshold float64
	// Pixel tunes the per-pixel comparison
	Pixel pixel.Options
	// Workers bounds parallel comparisons
	Workers int
}

// FromProject maps the project configuration onto a runner Config
func FromProject(p *snapcfg.Config) (Config, error) {
	diffColor, err := pixel.ParseHexColor(p.Compare.DiffColor)
	if err != nil {
		return Config{}, err
	}
	return Config{
		BaselineDir: p.Paths.Baseline,
		CurrentDir:  p.Paths.Current,
		DiffDir:     p.Paths.Diff,
		Threshold:   p.Compare.Threshold,
		Pixel: pixel.Options{
			Threshold:    p.Compare.Tolerance,
			AntiAliasing: p.Compare.AntiAliasing,
			DiffColor:    diffColor,
		},
	}, nil
}

// Runner implements domain.RunnerPort
type Runner struct {
	cfg Config
	log *logger.Logger
	now func() time.Time
}

// New constructs a verification runner
func New(cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	return &Runner{
		cfg: cfg,
		log: logger.Named("verify"),
		now: time.Now,
	}
}

// Run implements domain.RunnerPort. The returned error is reserved for a
// total inability to produce results; per-snapshot problems surface as
// StatusError entries instead
func (r *Runner) Run(ctx context.Context) (dom.VerificationSummary, error) {
	names, err := r.snapshotNames()
	if err != nil {
		return dom.VerificationSummary{}, err
	}

	r.log.Info().Int("snapshots", len(names)).
		Str("baseline", r.cfg.BaselineDir).
		Str("current", r.cfg.CurrentDir).
		Msg("verification started")

	results := make([]dom.ComparisonResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.compareOne(name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dom.VerificationSummary{}, err
	}

	summary := tally(results)
	summary.Timestamp = r.now().UTC()

	r.log.Info().
		Int("passed", summary.Passed).
		Int("failed", summary.Failed).
		Int("new", summary.New).
		Int("missing", summary.Missing).
		Int("errors", summary.Errors).
		Msg("verification finished")

	return summary, nil
}

// snapshotNames unions the png listings of the baseline and current
// directories. A missing directory lists as empty rather than failing
func (r *Runner) snapshotNames() ([]string, error) {
	set := make(map[string]struct{})
	for _, dir := range []string{r.cfg.BaselineDir, r.cfg.CurrentDir} {
		names, err := listPNG(dir)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			set[n] = struct{}{}
		}
	}

	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	// results must re-assemble deterministically regardless of worker
	// interleaving
	sort.Strings(out)
	return out, nil
}

func listPNG(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".png") {
			names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		}
	}
	return names, nil
}

// compareOne classifies a single snapshot name.
// Decision order: new, missing, then pixel comparison
func (r *Runner) compareOne(name string) dom.ComparisonResult {
	baselinePath := filepath.Join(r.cfg.BaselineDir, name+".png")
	currentPath := filepath.Join(r.cfg.CurrentDir, name+".png")

	res := dom.ComparisonResult{Name: name, Threshold: r.cfg.Threshold}

	baseExists := fileExists(baselinePath)
	curExists := fileExists(currentPath)

	switch {
	case !baseExists && curExists:
		res.Status = dom.StatusNew
		res.CurrentPath = currentPath
		return res
	case baseExists && !curExists:
		res.Status = dom.StatusMissing
		res.BaselinePath = baselinePath
		res.Error = "current screenshot missing"
		return res
	case !baseExists && !curExists:
		// listed a moment ago, gone now
		res.Status = dom.StatusError
		res.Error = "both screenshots missing"
		return res
	}

	res.BaselinePath = baselinePath
	res.CurrentPath = currentPath

	baseImg, err := pixel.Load(baselinePath)
	if err != nil {
		return r.itemError(res, err)
	}
	curImg, err := pixel.Load(currentPath)
	if err != nil {
		return r.itemError(res, err)
	}

	cmp, err := pixel.Compare(baseImg, curImg, r.cfg.Pixel)
	if err != nil {
		return r.itemError(res, err)
	}

	res.DiffPixelCount = cmp.DiffPixels
	res.TotalPixels = cmp.TotalPixels
	res.DiffPixelRatio = cmp.Ratio()

	// the diff artifact is written even for passing comparisons so the
	// report can always show the triple
	diffPath := filepath.Join(r.cfg.DiffDir, name+".png")
	if err := pixel.WritePNG(diffPath, cmp.Diff); err != nil {
		return r.itemError(res, err)
	}
	res.DiffPath = diffPath

	if res.DiffPixelRatio <= r.cfg.Threshold {
		res.Status = dom.StatusPassed
	} else {
		res.Status = dom.StatusFailed
	}
	return res
}

func (r *Runner) itemError(res dom.ComparisonResult, err error) dom.ComparisonResult {
	res.Status = dom.StatusError
	res.Error = err.Error()
	r.log.Warn().Str("name", res.Name).Err(err).Msg("comparison error")
	return res
}

func tally(results []dom.ComparisonResult) dom.VerificationSummary {
	s := dom.VerificationSummary{Total: len(results), Results: results}
	for _, res := range results {
		switch res.Status {
		case dom.StatusPassed:
			s.Passed++
		case dom.StatusFailed:
			s.Failed++
		case dom.StatusNew:
			s.New++
		case dom.StatusMissing:
			s.Missing++
		case dom.StatusError:
			s.Errors++
		}
	}
	return s
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
