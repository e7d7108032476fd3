package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	snapcfg "snapgate/internal/config"
)

// starterYAML is written by snapgate init when no project file exists yet
const starterYAML = `# snapgate project configuration
project: my-app
environment: local

paths:
  baseline: .snapgate/baseline
  current: .snapgate/current
  diff: .snapgate/diff
  report: .snapgate/report

compare:
  threshold: 0.001        # max mismatched-pixel ratio that still passes
  pixel_tolerance: 0.1    # per-pixel color distance tolerance
  antialiasing: true      # exempt anti-aliased pixels
  diff_color: "#ff00ff"

server:
  host: 127.0.0.1
  port: 8338

capture:
  base_url: http://localhost:3000
  viewports: ["1280x720"]
  pages:
    - id: home
      path: /

ingest:
  url: ""                 # empty disables run-payload upload
  retries: 3
`

// gitignoreEntries keep the regenerable artifact trees out of version
// control; the baseline directory stays tracked on purpose
var gitignoreEntries = []string{
	".snapgate/current/",
	".snapgate/diff/",
	".snapgate/report/",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold the artifact directories and a starter snapgate.yaml",
	Long: `Creates the baseline/current/diff/report directories, writes a starter
snapgate.yaml when none exists and adds the regenerable directories to
.gitignore. Safe to run repeatedly; existing files are left alone.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runInit()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit() error {
	wrote, err := writeStarterConfig(cfgPath)
	if err != nil {
		return err
	}
	if wrote {
		fmt.Printf("created %s\n", cfgPath)
	} else {
		fmt.Printf("%s already exists, keeping it\n", cfgPath)
	}

	cfg, err := snapcfg.Load(cfgPath)
	if err != nil {
		return err
	}
	for _, dir := range cfg.Paths.All() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	fmt.Printf("directories ready: %s\n", strings.Join(cfg.Paths.All(), ", "))

	added, err := ensureGitignore(filepath.Join(filepath.Dir(cfgPath), ".gitignore"))
	if err != nil {
		return err
	}
	if added > 0 {
		fmt.Printf("added %d .gitignore entries\n", added)
	}
	return nil
}

func writeStarterConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	return true, os.WriteFile(path, []byte(starterYAML), 0o644)
}

// ensureGitignore appends the artifact entries that are not present yet
// and reports how many were added
func ensureGitignore(path string) (int, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	have := make(map[string]bool)
	for _, line := range strings.Split(string(existing), "\n") {
		have[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, e := range gitignoreEntries {
		if !have[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return 0, nil
	}

	out := string(existing)
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	out += strings.Join(missing, "\n") + "\n"
	return len(missing), os.WriteFile(path, []byte(out), 0o644)
}
