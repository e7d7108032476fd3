// Package service implements the headless-browser capture run.
// One Chrome session serves the whole run; every configured page×viewport
// pair gets a fresh stealth tab, a full-page PNG under the current
// directory and a record in the capture log. Per-target failures land on
// the appended Capture instead of aborting the run
package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	snapcfg "snapgate/internal/config"
	"snapgate/internal/core/snapname"
	perr "snapgate/internal/platform/errors"
	"snapgate/internal/platform/logger"
	dom "snapgate/internal/services/browser/domain"
	capdom "snapgate/internal/services/capture/domain"
)

// domSnippetMax bounds the best-effort DOM head stored on a Capture
const domSnippetMax = 2048

// defaultNavTimeout guards navigation and load waits per target
const defaultNavTimeout = 30 * time.Second

// Config for the capturer
type Config struct {
	BaseURL     string
	CurrentDir  string
	Environment string
	NavTimeout  time.Duration
	Viewports   []string
	Pages       []snapcfg.Page
}

// FromProject maps the project configuration onto a capturer Config
func FromProject(p *snapcfg.Config) Config {
	return Config{
		BaseURL:     p.Capture.BaseURL,
		CurrentDir:  p.Paths.Current,
		Environment: p.Environment,
		NavTimeout:  p.Capture.NavTimeout,
		Viewports:   p.Capture.Viewports,
		Pages:       p.Capture.Pages,
	}
}

// session is one browser connection scoped to a run
type session interface {
	capture(ctx context.Context, t dom.Target) (png []byte, domSnippet string, err error)
	close()
}

// Capturer implements domain.CapturerPort
type Capturer struct {
	cfg      Config
	log      *logger.Logger
	captures capdom.LogPort

	newSession func(ctx context.Context) (session, error)
}

// New constructs a capturer that appends to the given log
func New(cfg Config, captures capdom.LogPort) *Capturer {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = defaultNavTimeout
	}
	c := &Capturer{
		cfg:      cfg,
		log:      logger.Named("browser"),
		captures: captures,
	}
	c.newSession = func(ctx context.Context) (session, error) {
		return newRodSession(ctx, cfg.NavTimeout)
	}
	return c
}

// Run implements domain.CapturerPort. The returned error covers run-level
// failures only; per-target problems surface on the appended Captures
func (c *Capturer) Run(ctx context.Context) (dom.RunStats, error) {
	targets, err := c.Targets()
	if err != nil {
		return dom.RunStats{}, err
	}
	if len(targets) == 0 {
		return dom.RunStats{}, perr.InvalidArgf("no pages configured")
	}
	if err := os.MkdirAll(c.cfg.CurrentDir, 0o755); err != nil {
		return dom.RunStats{}, perr.FromFS(err, "create current dir")
	}

	sess, err := c.newSession(ctx)
	if err != nil {
		return dom.RunStats{}, err
	}
	defer sess.close()

	var stats dom.RunStats
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rec := capdom.Capture{
			Name:        t.Name,
			Environment: c.cfg.Environment,
			Viewport:    &capdom.Viewport{Width: t.Width, Height: t.Height},
			TestTitle:   t.PageID,
		}

		png, snippet, err := sess.capture(ctx, t)
		if err != nil {
			rec.Error = err.Error()
			rec.DOMSnippet = "dom unavailable: " + err.Error()
			c.captures.Append(rec)
			stats.Failed++
			c.log.Warn().Err(err).Str("name", t.Name).Str("url", t.URL).Msg("capture failed")
			continue
		}

		path := filepath.Join(c.cfg.CurrentDir, t.Name+".png")
		if err := os.WriteFile(path, png, 0o644); err != nil {
			rec.Error = perr.FromFSf(err, "write %s", path).Error()
			rec.DOMSnippet = snippet
			c.captures.Append(rec)
			stats.Failed++
			c.log.Warn().Err(err).Str("name", t.Name).Msg("screenshot write failed")
			continue
		}

		rec.ScreenshotPath = path
		rec.DOMSnippet = snippet
		c.captures.Append(rec)
		stats.Captured++
		c.log.Info().Str("name", t.Name).Str("url", t.URL).Int("bytes", len(png)).Msg("captured")
	}

	c.log.Info().Int("captured", stats.Captured).Int("failed", stats.Failed).Msg("capture run done")
	return stats, nil
}

// Targets expands the configured pages into page×viewport capture units.
// Snapshot names come from the normalized page id joined with the
// viewport label, so the same page at two sizes never collides
func (c *Capturer) Targets() ([]dom.Target, error) {
	var out []dom.Target
	for _, p := range c.cfg.Pages {
		labels := p.Viewports
		if len(labels) == 0 {
			labels = c.cfg.Viewports
		}
		for _, label := range labels {
			w, h, err := snapcfg.ParseViewport(label)
			if err != nil {
				return nil, err
			}
			out = append(out, dom.Target{
				PageID: p.ID,
				URL:    joinURL(c.cfg.BaseURL, p.Path),
				Label:  label,
				Width:  w,
				Height: h,
				Name:   snapname.Join(p.ID, label),
			})
		}
	}
	return out, nil
}

func joinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" {
		path = "/"
	}
	return base + path
}

// rodSession drives one local headless Chrome via go-rod
type rodSession struct {
	browser    *rod.Browser
	lnch       *launcher.Launcher
	navTimeout time.Duration
}

func newRodSession(ctx context.Context, navTimeout time.Duration) (session, error) {
	l := launcher.New().Headless(true)
	u, err := l.Launch()
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "launch chrome")
	}

	b := rod.New().ControlURL(u).Context(ctx)
	if err := b.Connect(); err != nil {
		l.Cleanup()
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "connect chrome")
	}
	return &rodSession{browser: b, lnch: l, navTimeout: navTimeout}, nil
}

func (s *rodSession) capture(ctx context.Context, t dom.Target) ([]byte, string, error) {
	page, err := stealth.Page(s.browser)
	if err != nil {
		return nil, "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "open tab for %s", t.Name)
	}
	defer func() { _ = page.Close() }()

	navCtx, cancel := context.WithTimeout(ctx, s.navTimeout)
	defer cancel()
	p := page.Context(navCtx)

	if err := p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             t.Width,
		Height:            t.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "set viewport %s", t.Label)
	}
	if err := p.Navigate(t.URL); err != nil {
		return nil, "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "navigate %s", t.URL)
	}
	if err := p.WaitLoad(); err != nil {
		return nil, "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "wait load %s", t.URL)
	}

	png, err := p.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "screenshot %s", t.Name)
	}
	return png, domHead(p), nil
}

// domHead grabs the first bytes of the rendered document, best effort
func domHead(p *rod.Page) string {
	res, err := p.Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "dom snapshot failed: " + err.Error()
	}
	s := res.Value.Str()
	if len(s) > domSnippetMax {
		s = s[:domSnippetMax]
	}
	return s
}

func (s *rodSession) close() {
	s.browser.Close()
	if s.lnch != nil {
		s.lnch.Cleanup()
	}
}
