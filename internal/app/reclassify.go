package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/classify"
)

func newReclassifyCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "reclassify",
		Short: "Re-check album feeds for publisher manifests",
		Long: `Fetch every active album-typed feed and flip the ones that are
actually publisher feeds. All flips land in a single registry write.

Examples:
  feedctl reclassify
  feedctl reclassify --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := classify.New(store, feedClient, logger).ReclassifyAll(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(report)
			}

			header("Checked %d feed(s)", report.Checked)
			for _, flip := range report.Flips {
				ok("%s: %s → %s", flip.FeedID, flip.From, flip.To)
			}
			if report.Changed == 0 {
				fmt.Println("No misclassified feeds.")
			}
			if report.Failures != nil {
				fail("Some feeds could not be checked: %v", report.Failures)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
