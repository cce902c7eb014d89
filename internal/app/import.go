package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/opml"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.opml>",
		Short: "Import feeds from an OPML file",
		Long: `Register every feed URL found in an OPML subscription list, nested
groups included. URLs already in the registry are skipped.

Examples:
  feedctl import subscriptions.opml`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			res, err := opml.Import(store, args[0])
			if err != nil {
				return err
			}

			ok("Imported %d of %d feed(s), %d already registered", len(res.Added), res.Scanned, res.Skipped)
			for _, f := range res.Added {
				fmt.Printf("  %s  %s\n", f.ID, f.OriginalURL)
			}
			if res.Failures != nil {
				warn("Some outlines failed: %v", res.Failures)
			}
			return nil
		},
	}
	return cmd
}
