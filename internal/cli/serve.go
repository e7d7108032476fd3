package cli

import (
	"github.com/spf13/cobra"

	"snapgate/internal/services/server"
)

var (
	servePort     int
	serveProfiler bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the report and the approval API",
	Long: `Starts the local server: the report dashboard as static files, the
liveness probe the dashboard's approve controls depend on, and the
accept-baseline endpoint. When the configured port is taken the next free
one is used; the effective port is logged. Stops cleanly on interrupt.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "override the configured port")
	serveCmd.Flags().BoolVar(&serveProfiler, "profiler", false, "mount pprof under /debug")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signalContext()
	defer stop()

	return server.Run(ctx, server.Options{
		Config:         cfg,
		EnableProfiler: serveProfiler,
	})
}
