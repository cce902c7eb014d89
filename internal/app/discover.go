package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/discovery"
)

func newDiscoverCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Register album feeds listed by publishers",
		Long: `Walk every active publisher feed's remote items and register the
music feeds not yet in the registry. Discovered feeds get extended
priority and record which publisher listed them.

Examples:
  feedctl discover
  feedctl discover --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := discovery.New(store, feedClient, logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(report)
			}

			header("Inspected %d remote item(s) across %d publisher(s)", report.Inspected, report.Publishers)
			for _, f := range report.Added {
				ok("Registered %s (from %s)", f.ID, f.DiscoveredFrom)
			}
			if len(report.Added) == 0 {
				fmt.Println("Nothing new to register.")
			}
			if report.Skipped > 0 {
				fmt.Printf("%d item(s) skipped (already registered or not music)\n", report.Skipped)
			}
			for _, url := range report.Unverified {
				warn("Reported added but missing on re-read: %s", url)
			}
			if report.Failures != nil {
				fail("Some publishers failed: %v", report.Failures)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
