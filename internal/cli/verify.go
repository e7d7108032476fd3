package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	reportsvc "snapgate/internal/services/report/service"
	verifysvc "snapgate/internal/services/verify/service"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare current screenshots against the baselines",
	Long: `Classifies every snapshot found in the baseline and current directories,
writes a diff image per compared pair and renders the report dashboard.
Exits 1 when anything failed, errored or went missing; individual
comparison errors never abort the pass itself.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runVerify()
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	runnerCfg, err := verifysvc.FromProject(cfg)
	if err != nil {
		return err
	}
	sum, err := verifysvc.New(runnerCfg).Run(ctx)
	if err != nil {
		return err
	}

	builder := reportsvc.New(reportsvc.Config{
		ReportDir:   cfg.Paths.Report,
		Project:     cfg.Project,
		Environment: cfg.Environment,
	})
	if err := builder.Write(sum); err != nil {
		return err
	}

	fmt.Printf("verified %d snapshots\n", sum.Total)
	counts := []struct {
		label string
		n     int
	}{
		{"passed", sum.Passed},
		{"failed", sum.Failed},
		{"new", sum.New},
		{"missing", sum.Missing},
		{"errors", sum.Errors},
	}
	for _, c := range counts {
		if c.n > 0 {
			fmt.Printf("  %-8s %d\n", c.label, c.n)
		}
	}
	fmt.Printf("report: %s/index.html\n", cfg.Paths.Report)

	if sum.HasRegressions() {
		os.Exit(1)
	}
	return nil
}
