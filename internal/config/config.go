// Package config loads and validates the snapgate.yaml project file.
//
// Precedence is yaml < environment: values parsed from the file are
// overridden by SNAPGATE_-prefixed variables (SNAPGATE_SERVER_PORT,
// SNAPGATE_COMPARE_THRESHOLD, ...) before validation runs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	platformcfg "snapgate/internal/platform/config"
	perr "snapgate/internal/platform/errors"
	"snapgate/internal/platform/net/http/bind"
)

// DefaultPath is where Load looks when no --config flag is given
const DefaultPath = "snapgate.yaml"

// Config is the top-level snapgate configuration.
type Config struct {
	Project     string  `yaml:"project" json:"project" validate:"required"`
	Environment string  `yaml:"environment" json:"environment"`
	Paths       Paths   `yaml:"paths" json:"paths"`
	Compare     Compare `yaml:"compare" json:"compare"`
	Server      Server  `yaml:"server" json:"server"`
	Capture     Capture `yaml:"capture" json:"capture"`
	Ingest      Ingest  `yaml:"ingest" json:"ingest"`
}

// Paths holds the four artifact directories.
type Paths struct {
	Baseline string `yaml:"baseline" json:"baseline" validate:"required"`
	Current  string `yaml:"current" json:"current" validate:"required"`
	Diff     string `yaml:"diff" json:"diff" validate:"required"`
	Report   string `yaml:"report" json:"report" validate:"required"`
}

// All returns the directories in baseline, current, diff, report order.
func (p Paths) All() []string {
	return []string{p.Baseline, p.Current, p.Diff, p.Report}
}

// Compare tunes the pixel comparison.
type Compare struct {
	// Threshold is the max mismatched-pixel ratio that still passes.
	// Zero is legal and means "exact match only".
	Threshold float64 `yaml:"threshold" json:"threshold" validate:"gte=0,lte=1"`
	// Tolerance is the per-pixel color distance below which two pixels
	// count as equal
	Tolerance    float64 `yaml:"pixel_tolerance" json:"pixel_tolerance" validate:"gte=0,lte=1"`
	AntiAliasing bool    `yaml:"antialiasing" json:"antialiasing"`
	DiffColor    string  `yaml:"diff_color" json:"diff_color" validate:"omitempty,hexcolor"`
}

// Server configures the local report server.
type Server struct {
	Host string `yaml:"host" json:"host" validate:"required"`
	Port int    `yaml:"port" json:"port" validate:"gte=0,lte=65535"`
}

// Capture configures the browser capture run.
type Capture struct {
	BaseURL     string        `yaml:"base_url" json:"base_url" validate:"omitempty,url"`
	LogCapacity int           `yaml:"log_capacity" json:"log_capacity" validate:"gte=1"`
	NavTimeout  time.Duration `yaml:"nav_timeout" json:"nav_timeout" validate:"gte=0"`
	// Viewports are run-wide "WxH" labels, used by pages that declare none.
	Viewports []string `yaml:"viewports" json:"viewports" validate:"omitempty,dive,viewport"`
	Pages     []Page   `yaml:"pages" json:"pages" validate:"dive"`
}

// Page defines one page to capture.
type Page struct {
	ID        string   `yaml:"id" json:"id" validate:"required"`
	Path      string   `yaml:"path" json:"path" validate:"omitempty,startswith=/"`
	Viewports []string `yaml:"viewports" json:"viewports" validate:"omitempty,dive,viewport"`
}

// Ingest configures the optional run-payload upload.
type Ingest struct {
	URL     string `yaml:"url" json:"url" validate:"omitempty,url"`
	Retries int    `yaml:"retries" json:"retries" validate:"gte=0"`
}

// Default returns a Config with every scalar default filled in.
// Load unmarshals the yaml file over it, so absent keys keep their
// defaults while explicit zero values survive.
func Default() Config {
	return Config{
		Paths: Paths{
			Baseline: ".snapgate/baseline",
			Current:  ".snapgate/current",
			Diff:     ".snapgate/diff",
			Report:   ".snapgate/report",
		},
		Compare: Compare{
			Threshold:    0.001,
			Tolerance:    0.1,
			AntiAliasing: true,
			DiffColor:    "#ff00ff",
		},
		Server: Server{
			Host: "127.0.0.1",
			Port: 8338,
		},
		Capture: Capture{
			LogCapacity: 1000,
			NavTimeout:  30 * time.Second,
			Viewports:   []string{"1280x720"},
		},
		Ingest: Ingest{
			Retries: 3,
		},
	}
}

// Load reads, defaults, env-overrides and validates a snapgate.yaml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, perr.FromFSf(err, "read config %s", path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse config %s", path)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.Capture.Pages {
		if c.Capture.Pages[i].Path == "" {
			c.Capture.Pages[i].Path = "/"
		}
		if len(c.Capture.Pages[i].Viewports) == 0 {
			c.Capture.Pages[i].Viewports = c.Capture.Viewports
		}
	}
}

// applyEnv layers SNAPGATE_ variables over the parsed values.
// Unset variables keep the yaml value, which rides in as the default.
func (c *Config) applyEnv() {
	env := platformcfg.New().Prefix("SNAPGATE_")

	c.Project = env.MayString("PROJECT", c.Project)
	c.Environment = env.MayString("ENVIRONMENT", c.Environment)

	c.Paths.Baseline = env.MayString("PATHS_BASELINE", c.Paths.Baseline)
	c.Paths.Current = env.MayString("PATHS_CURRENT", c.Paths.Current)
	c.Paths.Diff = env.MayString("PATHS_DIFF", c.Paths.Diff)
	c.Paths.Report = env.MayString("PATHS_REPORT", c.Paths.Report)

	c.Compare.Threshold = env.MayFloat64("COMPARE_THRESHOLD", c.Compare.Threshold)
	c.Compare.Tolerance = env.MayFloat64("COMPARE_PIXEL_TOLERANCE", c.Compare.Tolerance)
	c.Compare.AntiAliasing = env.MayBool("COMPARE_ANTIALIASING", c.Compare.AntiAliasing)
	c.Compare.DiffColor = env.MayString("COMPARE_DIFF_COLOR", c.Compare.DiffColor)

	c.Server.Host = env.MayString("SERVER_HOST", c.Server.Host)
	c.Server.Port = env.MayInt("SERVER_PORT", c.Server.Port)

	c.Capture.BaseURL = env.MayString("CAPTURE_BASE_URL", c.Capture.BaseURL)
	c.Capture.LogCapacity = env.MayInt("CAPTURE_LOG_CAPACITY", c.Capture.LogCapacity)
	c.Capture.NavTimeout = env.MayDuration("CAPTURE_NAV_TIMEOUT", c.Capture.NavTimeout)
	c.Capture.Viewports = env.MayCSV("CAPTURE_VIEWPORTS", c.Capture.Viewports)

	c.Ingest.URL = env.MayString("INGEST_URL", c.Ingest.URL)
	c.Ingest.Retries = env.MayInt("INGEST_RETRIES", c.Ingest.Retries)
}

// Validate runs struct validation and maps the first failure to a
// structured validation error.
func (c *Config) Validate() error {
	if err := bind.Get().Validator.Struct(c); err != nil {
		field, msg := bind.ValidationFieldAndMessage(err)
		return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
	}
	return nil
}

// ParseViewport splits a validated "WxH" label into pixel dimensions.
func ParseViewport(label string) (width, height int, err error) {
	w, h, ok := strings.Cut(label, "x")
	if !ok {
		return 0, 0, perr.InvalidArgf("viewport %q: want WxH", label)
	}
	width, err = strconv.Atoi(w)
	if err != nil {
		return 0, 0, perr.InvalidArgf("viewport %q: bad width", label)
	}
	height, err = strconv.Atoi(h)
	if err != nil {
		return 0, 0, perr.InvalidArgf("viewport %q: bad height", label)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, perr.InvalidArgf("viewport %q: dimensions must be positive", label)
	}
	return width, height, nil
}
