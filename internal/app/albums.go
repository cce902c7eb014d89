package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/albums"
)

func newAlbumsCmd() *cobra.Command {
	var (
		source  string
		force   bool
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "albums",
		Short: "Aggregate album data from the registry's feeds",
		Long: `Fetch album data from the chosen source. Failures are reported per
feed; the command itself succeeds even when individual feeds fail.

Sources: auto (default), static, static-cached, dynamic, database.

Examples:
  feedctl albums
  feedctl albums --source dynamic --force
  feedctl albums --source static --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !albums.ValidSource(source) {
				return fmt.Errorf("unknown source %q (auto, static, static-cached, dynamic, or database)", source)
			}

			res := albumsSvc.FetchAlbums(cmd.Context(), albums.FetchOptions{
				Source:          source,
				ForceRegenerate: force,
			})

			if jsonOut {
				return printJSON(res)
			}

			origin := res.Source
			if res.Cached {
				origin = fmt.Sprintf("%s, cached %dms ago", res.Source, res.CacheAge)
			}
			header("%d album(s) from %s", len(res.Albums), origin)
			for _, a := range res.Albums {
				line := a.Title
				if a.Artist != "" {
					line = fmt.Sprintf("%s by %s", a.Title, a.Artist)
				}
				fmt.Printf("  %s (%d track(s))\n", line, len(a.Tracks))
			}
			for _, e := range res.Errors {
				fail("%s: %s", e.FeedID, e.Err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", albums.SourceAuto, "Album source")
	cmd.Flags().BoolVar(&force, "force", false, "Bypass the result cache")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
