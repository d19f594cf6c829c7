package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-supernode/pkg/config"
	"github.com/dd0wney/cluso-supernode/pkg/logging"
)

var (
	radiusRange  float64
	archiveDir   string
	placementDir string
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Compute supernode descriptors for every snapshot",
	Long: `Compute influence, layout radius, rich-club coefficient, betweenness,
clustering, core number and structural entropy for every community of every
loadable snapshot. Snapshots without an edge list get influence and radius
only; their topology features are left missing.

Examples:
  supernode describe --root ./data --archive ./out/archive
  supernode describe --root ./data --placements ./out/layout --radius-range 200`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		described, err := app.runner.Describe(cmd.Context(), "")
		if err == nil {
			app.logger.Info("description finished", logging.Int("snapshots", len(described)))
		}
		return finish(err)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	addDescribeFlags(describeCmd)
}

func addDescribeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Float64Var(&radiusRange, "radius-range", 0, "radius of the least influential community")
	flags.StringVar(&archiveDir, "archive", "", "directory for compressed supernode archives")
	flags.StringVar(&placementDir, "placements", "", "directory for polar placement CSVs")
}

func applyDescribeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("radius-range") == nil {
		return
	}
	if flags.Changed("radius-range") {
		cfg.Descriptor.RadiusRange = radiusRange
	}
	if flags.Changed("archive") {
		cfg.Output.ArchiveDir = archiveDir
	}
	if flags.Changed("placements") {
		cfg.Output.PlacementDir = placementDir
	}
}
