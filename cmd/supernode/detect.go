package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-supernode/pkg/config"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
)

var (
	detectMethod  string
	maxIterations int
	overwrite     bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Generate partition files from edge lists",
	Long: `Detect communities in each snapshot's edge list and write them as the
snapshot's partition file, for data sets that ship edges without a
partition. Label propagation is the default; components groups nodes by
weak connectivity. Existing partition files are left alone unless
--overwrite is given.

Examples:
  supernode detect --root ./data
  supernode detect --root ./data --method components --overwrite`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		detected, err := app.runner.Detect(cmd.Context())
		if err == nil {
			app.logger.Info("detection finished", logging.Int("snapshots", len(detected)))
		}
		return finish(err)
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)

	flags := detectCmd.Flags()
	flags.StringVar(&detectMethod, "method", "", "detection method: label-propagation or components")
	flags.IntVar(&maxIterations, "max-iterations", 0, "label propagation round limit")
	flags.BoolVar(&overwrite, "overwrite", false, "replace existing partition files")
}

func applyDetectFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("method") == nil {
		return
	}
	if flags.Changed("method") {
		cfg.Detection.Method = detectMethod
	}
	if flags.Changed("max-iterations") {
		cfg.Detection.MaxIterations = maxIterations
	}
	if flags.Changed("overwrite") {
		cfg.Detection.Overwrite = overwrite
	}
}
