package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	snapcfg "snapgate/internal/config"
	dom "snapgate/internal/services/browser/domain"
	capsvc "snapgate/internal/services/capture/service"
)

// fakeSession answers capture calls from a canned table keyed by snapshot name.
type fakeSession struct {
	shots  map[string][]byte
	errs   map[string]error
	calls  []string
	closed bool
}

func (f *fakeSession) capture(_ context.Context, t dom.Target) ([]byte, string, error) {
	f.calls = append(f.calls, t.Name)
	if err := f.errs[t.Name]; err != nil {
		return nil, "", err
	}
	return f.shots[t.Name], "<html>stub</html>", nil
}

func (f *fakeSession) close() { f.closed = true }

func capturer(t *testing.T, cfg Config, sess session) (*Capturer, *capsvc.Log) {
	t.Helper()
	log := capsvc.New(capsvc.Config{Capacity: 100})
	c := New(cfg, log)
	c.newSession = func(context.Context) (session, error) { return sess, nil }
	return c, log
}

func TestTargets_PageViewportExpansion(t *testing.T) {
	c := New(Config{
		BaseURL:   "http://localhost:3000/",
		Viewports: []string{"1280x720"},
		Pages: []snapcfg.Page{
			{ID: "home", Path: "/", Viewports: []string{"1280x720", "390x844"}},
			{ID: "Über Pricing", Path: "/pricing"}, // inherits run-wide viewports
		},
	}, nil)

	got, err := c.Targets()
	if err != nil {
		t.Fatalf("Targets: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("targets = %d, want 3", len(got))
	}
	if got[0].Name != "home-1280x720" || got[0].URL != "http://localhost:3000/" {
		t.Fatalf("first target = %+v", got[0])
	}
	if got[1].Width != 390 || got[1].Height != 844 {
		t.Fatalf("second viewport = %dx%d", got[1].Width, got[1].Height)
	}
	// page id is normalized before it becomes a file name
	if got[2].Name != "uber-pricing-1280x720" {
		t.Fatalf("normalized name = %q", got[2].Name)
	}
	if got[2].URL != "http://localhost:3000/pricing" {
		t.Fatalf("joined url = %q", got[2].URL)
	}
}

func TestTargets_BadViewportLabel(t *testing.T) {
	c := New(Config{
		Pages: []snapcfg.Page{{ID: "home", Viewports: []string{"huge"}}},
	}, nil)
	if _, err := c.Targets(); err == nil {
		t.Fatal("want error for malformed viewport label")
	}
}

func TestRun_WritesScreenshotsAndAppendsCaptures(t *testing.T) {
	dir := t.TempDir()
	sess := &fakeSession{shots: map[string][]byte{
		"home-1280x720":  []byte("png-home"),
		"login-1280x720": []byte("png-login"),
	}}
	c, log := capturer(t, Config{
		BaseURL:     "http://localhost:3000",
		CurrentDir:  dir,
		Environment: "local",
		Viewports:   []string{"1280x720"},
		Pages:       []snapcfg.Page{{ID: "home", Path: "/"}, {ID: "login", Path: "/login"}},
	}, sess)

	stats, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Captured != 2 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if !sess.closed {
		t.Fatal("session not closed")
	}

	data, err := os.ReadFile(filepath.Join(dir, "home-1280x720.png"))
	if err != nil || string(data) != "png-home" {
		t.Fatalf("screenshot file = %q, %v", data, err)
	}

	recs := log.All()
	if len(recs) != 2 {
		t.Fatalf("captures = %d, want 2", len(recs))
	}
	if recs[0].Name != "home-1280x720" || recs[0].Error != "" {
		t.Fatalf("first capture = %+v", recs[0])
	}
	if recs[0].Viewport == nil || recs[0].Viewport.Width != 1280 {
		t.Fatalf("viewport not recorded: %+v", recs[0].Viewport)
	}
	if recs[0].Environment != "local" {
		t.Fatalf("environment = %q", recs[0].Environment)
	}
	if recs[0].DOMSnippet != "<html>stub</html>" {
		t.Fatalf("dom snippet = %q", recs[0].DOMSnippet)
	}
}

func TestRun_TargetFailureContinues(t *testing.T) {
	dir := t.TempDir()
	sess := &fakeSession{
		shots: map[string][]byte{"a-1x1": []byte("a"), "c-1x1": []byte("c")},
		errs:  map[string]error{"b-1x1": errors.New("navigate boom")},
	}
	c, log := capturer(t, Config{
		BaseURL:    "http://localhost:3000",
		CurrentDir: dir,
		Viewports:  []string{"1x1"},
		Pages:      []snapcfg.Page{{ID: "a"}, {ID: "b"}, {ID: "c"}},
	}, sess)

	stats, err := c.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Captured != 2 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if got := len(sess.calls); got != 3 {
		t.Fatalf("capture attempts = %d, want all 3", got)
	}

	// the failed target still leaves an inspectable record behind
	recs := log.ByName("b-1x1")
	if len(recs) != 1 || recs[0].Error == "" || recs[0].ScreenshotPath != "" {
		t.Fatalf("failed capture record = %+v", recs)
	}
	if _, err := os.Stat(filepath.Join(dir, "b-1x1.png")); !os.IsNotExist(err) {
		t.Fatal("failed target must not leave a screenshot file")
	}
}

func TestRun_NoPagesIsAnError(t *testing.T) {
	c, _ := capturer(t, Config{CurrentDir: t.TempDir()}, &fakeSession{})
	if _, err := c.Run(context.Background()); err == nil {
		t.Fatal("want error when nothing is configured")
	}
}

func TestRun_ContextCancelStopsBetweenTargets(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, log := capturer(t, Config{
		BaseURL:    "http://localhost:3000",
		CurrentDir: t.TempDir(),
		Viewports:  []string{"1x1"},
		Pages:      []snapcfg.Page{{ID: "a"}, {ID: "b"}},
	}, &fakeSession{})

	if _, err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if log.Size() != 0 {
		t.Fatalf("captures after cancel = %d", log.Size())
	}
}
