package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-supernode/pkg/logging"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Track and describe in one pass",
	Long: `Run track and then describe, storing both result sets under one run ID.
Accepts the flags of both commands.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report, err := app.runner.Run(cmd.Context())
		if err == nil {
			app.logger.Info("run finished",
				logging.RunID(report.RunID),
				logging.Int("correspondences", len(report.Tracking.Records)),
				logging.Int("snapshots", len(report.Described)))
		}
		return finish(err)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addTrackFlags(runCmd)
	addDescribeFlags(runCmd)
}
