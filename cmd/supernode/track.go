package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-supernode/pkg/config"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
)

var (
	threshold       float64
	universePolicy  string
	universeSize    int
	correspondences string
	quietDegenerate bool
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Link communities across consecutive snapshots",
	Long: `Match every community of each loaded snapshot against every community of
the previous loaded snapshot and keep pairs whose adjusted Jaccard
similarity reaches --threshold. Missing or empty snapshots are skipped and
their neighbours treated as adjacent.

Examples:
  supernode track --root ./data
  supernode track --root ./data --threshold 0.2 --policy cumulative
  supernode track --root ./data --policy fixed --universe-size 250000`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := app.runner.Track(cmd.Context())
		if err == nil {
			app.logger.Info("tracking finished",
				logging.RunID(result.RunID),
				logging.Int("pairs", len(result.Pairs)),
				logging.Int("correspondences", len(result.Records)))
		}
		return finish(err)
	},
}

func init() {
	rootCmd.AddCommand(trackCmd)
	addTrackFlags(trackCmd)
}

func addTrackFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64VarP(&threshold, "threshold", "t", 0, "minimum adjusted similarity in [0,1]")
	flags.StringVar(&universePolicy, "policy", "", "universe size policy: per-pair, cumulative, global, fixed")
	flags.IntVar(&universeSize, "universe-size", 0, "universe size for --policy fixed")
	flags.StringVarP(&correspondences, "output", "o", "", "correspondence CSV path")
	flags.BoolVar(&quietDegenerate, "quiet-degenerate", false, "log degenerate similarity cells at debug level")
}

func applyTrackFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("threshold") == nil {
		return
	}
	if flags.Changed("threshold") {
		cfg.Tracking.Threshold = threshold
	}
	if flags.Changed("policy") {
		cfg.Tracking.UniversePolicy = universePolicy
	}
	if flags.Changed("universe-size") {
		cfg.Tracking.UniverseSize = universeSize
	}
	if flags.Changed("output") {
		cfg.Output.CorrespondenceCSV = correspondences
	}
	if flags.Changed("quiet-degenerate") {
		cfg.Tracking.QuietDegenerate = quietDegenerate
	}
}
