// Package cli defines the snapgate command tree
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	snapcfg "snapgate/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "snapgate",
	Short: "State-based visual regression testing",
	Long: `snapgate captures UI screenshots, compares them against trusted
baselines and lets a human approve intentional changes.

Typical loop: snapgate capture, snapgate verify, then snapgate serve and
approve the changes from the report dashboard (or snapgate approve here).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	// .env is optional; project config owns the real settings
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c",
		snapcfg.DefaultPath, "path to the snapgate.yaml project file")
}

func loadConfig() (*snapcfg.Config, error) {
	return snapcfg.Load(cfgPath)
}

// signalContext is canceled on SIGINT/SIGTERM so servers and capture runs
// wind down cleanly
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
