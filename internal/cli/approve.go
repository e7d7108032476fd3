package cli

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	perr "snapgate/internal/platform/errors"
	approvesvc "snapgate/internal/services/approve/service"
)

var (
	approveAll         bool
	approveInteractive bool
)

var approveCmd = &cobra.Command{
	Use:   "approve [names...]",
	Short: "Promote current screenshots to baselines",
	Long: `Promotes the named snapshots' current screenshots to baselines and
removes their stale diffs. With --all every approvable snapshot is
promoted; with --interactive the set is picked from a multi-select.
Failures never stop the remaining approvals; the exit code is 1 when any
approval failed.`,
	RunE: func(_ *cobra.Command, args []string) error {
		return runApprove(args)
	},
}

func init() {
	approveCmd.Flags().BoolVar(&approveAll, "all", false, "approve every snapshot with a current screenshot")
	approveCmd.Flags().BoolVarP(&approveInteractive, "interactive", "i", false, "pick snapshots from a multi-select")
	rootCmd.AddCommand(approveCmd)
}

func runApprove(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	approver := approvesvc.New(approvesvc.Config{
		BaselineDir: cfg.Paths.Baseline,
		CurrentDir:  cfg.Paths.Current,
		DiffDir:     cfg.Paths.Diff,
	})

	names := args
	switch {
	case approveAll:
		names, err = approver.ListApprovable()
		if err != nil {
			return err
		}
	case approveInteractive:
		candidates, err := approver.ListApprovable()
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			fmt.Println("nothing to approve")
			return nil
		}
		prompt := &survey.MultiSelect{
			Message: "Snapshots to promote to baseline:",
			Options: candidates,
		}
		if err := survey.AskOne(prompt, &names); err != nil {
			return err
		}
	}

	if len(names) == 0 {
		return perr.InvalidArgf("no snapshot names given; pass names, --all or --interactive")
	}

	failed := 0
	for _, res := range approver.ApproveMany(names) {
		if res.Success {
			fmt.Printf("  ok   %s\n", res.SnapshotName)
			continue
		}
		failed++
		fmt.Printf("  FAIL %s: %s (%s)\n", res.SnapshotName, res.Message, res.Error)
	}
	fmt.Printf("approved %d of %d\n", len(names)-failed, len(names))

	if failed > 0 {
		os.Exit(1)
	}
	return nil
}
