package service

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	snapcfg "snapgate/internal/config"
	"snapgate/internal/core/pixel"
	dom "snapgate/internal/services/verify/domain"
)

func testDirs(t *testing.T) (baseline, current, diff string) {
	t.Helper()
	root := t.TempDir()
	return filepath.Join(root, "baseline"), filepath.Join(root, "current"), filepath.Join(root, "diff")
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func writeSnapshot(t *testing.T, path string, img *image.NRGBA) {
	t.Helper()
	if err := pixel.WritePNG(path, img); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func newRunner(baseline, current, diff string) *Runner {
	return New(Config{
		BaselineDir: baseline,
		CurrentDir:  current,
		DiffDir:     diff,
		Threshold:   0.001,
	})
}

func TestRun_NoSnapshotsIsEmptySummary(t *testing.T) {
	t.Parallel()

	baseline, current, diff := testDirs(t)

	sum, err := newRunner(baseline, current, diff).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Total != 0 || len(sum.Results) != 0 {
		t.Fatalf("summary = %+v, want empty", sum)
	}
	if sum.HasRegressions() {
		t.Fatal("empty summary should not report regressions")
	}
	if sum.Timestamp.IsZero() {
		t.Fatal("timestamp not set")
	}
}

func TestRun_ClassifiesEveryOutcome(t *testing.T) {
	t.Parallel()

	baseline, current, diff := testDirs(t)

	red := solid(4, 4, color.NRGBA{R: 255, A: 255})
	blue := solid(4, 4, color.NRGBA{B: 255, A: 255})

	writeSnapshot(t, filepath.Join(baseline, "passed.png"), red)
	writeSnapshot(t, filepath.Join(current, "passed.png"), red)

	writeSnapshot(t, filepath.Join(baseline, "failed.png"), red)
	writeSnapshot(t, filepath.Join(current, "failed.png"), blue)

	writeSnapshot(t, filepath.Join(current, "new.png"), red)

	writeSnapshot(t, filepath.Join(baseline, "missing.png"), red)

	writeSnapshot(t, filepath.Join(baseline, "corrupt.png"), red)
	if err := os.WriteFile(filepath.Join(current, "corrupt.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	// non-snapshot files never enter the union
	if err := os.WriteFile(filepath.Join(baseline, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sum, err := newRunner(baseline, current, diff).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantOrder := []string{"corrupt", "failed", "missing", "new", "passed"}
	if len(sum.Results) != len(wantOrder) {
		t.Fatalf("got %d results, want %d", len(sum.Results), len(wantOrder))
	}
	for i, want := range wantOrder {
		if sum.Results[i].Name != want {
			t.Fatalf("results[%d] = %q, want %q", i, sum.Results[i].Name, want)
		}
	}

	byName := make(map[string]dom.ComparisonResult, len(sum.Results))
	for _, r := range sum.Results {
		byName[r.Name] = r
	}

	if got := byName["passed"]; got.Status != dom.StatusPassed || got.DiffPixelCount != 0 || got.TotalPixels != 16 {
		t.Errorf("passed = %+v", got)
	}
	if got := byName["failed"]; got.Status != dom.StatusFailed || got.DiffPixelCount != 16 || got.DiffPixelRatio != 1 {
		t.Errorf("failed = %+v", got)
	}
	if got := byName["new"]; got.Status != dom.StatusNew || got.CurrentPath == "" || got.BaselinePath != "" {
		t.Errorf("new = %+v", got)
	}
	if got := byName["missing"]; got.Status != dom.StatusMissing || got.Error != "current screenshot missing" || got.BaselinePath == "" {
		t.Errorf("missing = %+v", got)
	}
	if got := byName["corrupt"]; got.Status != dom.StatusError || !strings.Contains(got.Error, "corrupt.png") {
		t.Errorf("corrupt = %+v", got)
	}

	if sum.Total != 5 || sum.Passed != 1 || sum.Failed != 1 || sum.New != 1 || sum.Missing != 1 || sum.Errors != 1 {
		t.Errorf("summary counts = %+v", sum)
	}
	if !sum.HasRegressions() {
		t.Error("summary should report regressions")
	}

	// diff artifacts exist for every compared pair, passing included
	for _, name := range []string{"passed", "failed"} {
		p := filepath.Join(diff, name+".png")
		if _, err := os.Stat(p); err != nil {
			t.Errorf("diff for %s: %v", name, err)
		}
		if byName[name].DiffPath != p {
			t.Errorf("%s DiffPath = %q, want %q", name, byName[name].DiffPath, p)
		}
	}
	// but not for items that were never compared
	if byName["new"].DiffPath != "" || byName["missing"].DiffPath != "" {
		t.Error("uncompared items should not carry a diff path")
	}
}

func TestRun_DimensionsMismatch(t *testing.T) {
	t.Parallel()

	baseline, current, diff := testDirs(t)
	writeSnapshot(t, filepath.Join(baseline, "page.png"), solid(10, 5, color.NRGBA{R: 255, A: 255}))
	writeSnapshot(t, filepath.Join(current, "page.png"), solid(10, 6, color.NRGBA{R: 255, A: 255}))

	sum, err := newRunner(baseline, current, diff).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Errors != 1 {
		t.Fatalf("summary = %+v, want one error", sum)
	}

	got := sum.Results[0]
	if got.Status != dom.StatusError {
		t.Fatalf("status = %q, want %q", got.Status, dom.StatusError)
	}
	if want := "dimensions mismatch: baseline 10x5 vs current 10x6"; got.Error != want {
		t.Fatalf("error = %q, want %q", got.Error, want)
	}
}

func TestRun_RatioEqualToThresholdPasses(t *testing.T) {
	t.Parallel()

	baseline, current, diff := testDirs(t)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	base := solid(10, 10, white)
	cur := solid(10, 10, white)
	cur.SetNRGBA(0, 0, color.NRGBA{A: 255})

	writeSnapshot(t, filepath.Join(baseline, "page.png"), base)
	writeSnapshot(t, filepath.Join(current, "page.png"), cur)

	run := func(threshold float64) dom.ComparisonResult {
		t.Helper()
		r := New(Config{BaselineDir: baseline, CurrentDir: current, DiffDir: diff, Threshold: threshold})
		sum, err := r.Run(context.Background())
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return sum.Results[0]
	}

	if got := run(0.01); got.Status != dom.StatusPassed {
		t.Fatalf("ratio 0.01 against threshold 0.01 = %q, want %q", got.Status, dom.StatusPassed)
	}
	if got := run(0.009); got.Status != dom.StatusFailed {
		t.Fatalf("ratio 0.01 against threshold 0.009 = %q, want %q", got.Status, dom.StatusFailed)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	t.Parallel()

	baseline, current, diff := testDirs(t)
	writeSnapshot(t, filepath.Join(baseline, "page.png"), solid(2, 2, color.NRGBA{R: 255, A: 255}))
	writeSnapshot(t, filepath.Join(current, "page.png"), solid(2, 2, color.NRGBA{R: 255, A: 255}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newRunner(baseline, current, diff).Run(ctx); err == nil {
		t.Fatal("want error from canceled context")
	}
}

func TestFromProject(t *testing.T) {
	t.Parallel()

	p := snapcfg.Default()
	p.Paths.Baseline = "b"
	p.Paths.Current = "c"
	p.Paths.Diff = "d"
	p.Compare.Threshold = 0.02
	p.Compare.Tolerance = 0.25
	p.Compare.AntiAliasing = false
	p.Compare.DiffColor = "#00ffff"

	cfg, err := FromProject(&p)
	if err != nil {
		t.Fatalf("FromProject: %v", err)
	}
	if cfg.BaselineDir != "b" || cfg.CurrentDir != "c" || cfg.DiffDir != "d" {
		t.Fatalf("dirs = %q %q %q", cfg.BaselineDir, cfg.CurrentDir, cfg.DiffDir)
	}
	if cfg.Threshold != 0.02 {
		t.Fatalf("threshold = %v", cfg.Threshold)
	}
	if cfg.Pixel.Threshold != 0.25 || cfg.Pixel.AntiAliasing {
		t.Fatalf("pixel options = %+v", cfg.Pixel)
	}
	if want := (color.NRGBA{G: 255, B: 255, A: 255}); cfg.Pixel.DiffColor != want {
		t.Fatalf("diff color = %+v, want %+v", cfg.Pixel.DiffColor, want)
	}

	p.Compare.DiffColor = "magenta"
	if _, err := FromProject(&p); err == nil {
		t.Fatal("want error for unparseable diff color")
	}
}
