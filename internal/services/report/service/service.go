// Package service renders the verification dashboard.
// The output directory is self-contained: index.html, summary.json and
// copies of every referenced image, so the folder can be zipped into a CI
// artifact and opened anywhere. Opened that way the page stays read-only,
// its approve controls only come alive after a successful liveness probe
// against the local server
package service

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"time"

	perr "snapgate/internal/platform/errors"
	"snapgate/internal/platform/logger"
	dom "snapgate/internal/services/report/domain"
	verifydom "snapgate/internal/services/verify/domain"
)

//go:embed report.html.tmpl
var reportHTML string

var reportTmpl = template.Must(template.New("report").Parse(reportHTML))

// Config for the report builder
type Config struct {
	ReportDir   string
	Project     string
	Environment string
}

// Builder implements domain.BuilderPort
type Builder struct {
	cfg Config
	log *logger.Logger
	now func() time.Time
}

// New constructs a report builder
func New(cfg Config) *Builder {
	return &Builder{cfg: cfg, log: logger.Named("report"), now: time.Now}
}

// Write implements domain.BuilderPort
func (b *Builder) Write(sum verifydom.VerificationSummary) error {
	if err := os.MkdirAll(b.cfg.ReportDir, 0o755); err != nil {
		return perr.FromFS(err, "create report dir")
	}

	page := b.buildPage(sum)

	// render fully before touching index.html so a template failure never
	// leaves a truncated dashboard behind
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, page); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "render report")
	}
	if err := os.WriteFile(filepath.Join(b.cfg.ReportDir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return perr.FromFS(err, "write report index")
	}

	raw, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnknown, "encode summary")
	}
	if err := os.WriteFile(filepath.Join(b.cfg.ReportDir, "summary.json"), raw, 0o644); err != nil {
		return perr.FromFS(err, "write summary")
	}

	b.log.Info().Str("dir", b.cfg.ReportDir).Int("items", len(page.Items)).Msg("report written")
	return nil
}

// buildPage maps engine results onto display units and pulls the images
// they reference into the report directory
func (b *Builder) buildPage(sum verifydom.VerificationSummary) dom.Page {
	items := make([]dom.Item, 0, len(sum.Results))
	for _, res := range sum.Results {
		item := dom.Item{Name: res.Name, Status: res.Status}
		switch res.Status {
		case verifydom.StatusPassed, verifydom.StatusFailed:
			item.DiffPercent = fmt.Sprintf("%.2f%%", res.DiffPixelRatio*100)
			item.Baseline = b.copyImage("baseline", res.Name, res.BaselinePath)
			item.Current = b.copyImage("current", res.Name, res.CurrentPath)
			item.Diff = b.copyImage("diff", res.Name, res.DiffPath)
		case verifydom.StatusNew:
			item.Current = b.copyImage("current", res.Name, res.CurrentPath)
		case verifydom.StatusMissing:
			item.Baseline = b.copyImage("baseline", res.Name, res.BaselinePath)
			item.Message = res.Error
		case verifydom.StatusError:
			item.Message = res.Error
		}
		item.Approvable = res.Status == verifydom.StatusFailed || res.Status == verifydom.StatusNew
		items = append(items, item)
	}

	categories := make([]dom.Category, 0, 5)
	for _, c := range []dom.Category{
		{Status: verifydom.StatusPassed, Count: sum.Passed},
		{Status: verifydom.StatusFailed, Count: sum.Failed},
		{Status: verifydom.StatusNew, Count: sum.New},
		{Status: verifydom.StatusMissing, Count: sum.Missing},
		{Status: verifydom.StatusError, Count: sum.Errors},
	} {
		if c.Count > 0 {
			categories = append(categories, c)
		}
	}

	generated := sum.Timestamp
	if generated.IsZero() {
		generated = b.now().UTC()
	}

	return dom.Page{
		Project:     b.cfg.Project,
		Environment: b.cfg.Environment,
		GeneratedAt: generated,
		Total:       sum.Total,
		Categories:  categories,
		Items:       items,
	}
}

// copyImage pulls one artifact into the report tree and returns its
// report-relative path. A copy failure degrades that image to absent
// rather than failing the report
func (b *Builder) copyImage(kind, name, src string) string {
	if src == "" {
		return ""
	}
	dst := filepath.Join(b.cfg.ReportDir, "images", kind, name+".png")
	if err := copyFile(src, dst); err != nil {
		b.log.Warn().Str("name", name).Str("kind", kind).Err(err).Msg("report image copy failed")
		return ""
	}
	return "images/" + kind + "/" + name + ".png"
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
