package app

import (
	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/opml"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <file.opml>",
		Short: "Export the registry as an OPML file",
		Long: `Write every registered feed to an OPML 2.0 subscription list, album
and publisher feeds grouped separately.

Examples:
  feedctl export feeds.opml`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := opml.Export(store, args[0])
			if err != nil {
				return err
			}
			ok("Exported %d feed(s) to %s", n, args[0])
			return nil
		},
	}
	return cmd
}
