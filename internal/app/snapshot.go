package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/albums"
)

func newSnapshotCmd() *cobra.Command {
	var cached bool

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write the static album snapshot",
		Long: `Run a full live pass over the registry's album feeds and write the
result as the snapshot the site falls back to when live parsing is
unavailable.

Examples:
  feedctl snapshot
  feedctl snapshot --cached`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := cfg.EffectiveStaticPath()
			if cached {
				path = cfg.EffectiveCachedPath()
			}
			if path == "" {
				return fmt.Errorf("no snapshot path configured")
			}

			res := albumsSvc.FetchAlbums(cmd.Context(), albums.FetchOptions{
				Source:          albums.SourceDynamic,
				ForceRegenerate: true,
			})

			if err := albums.WriteSnapshot(path, albums.NewSnapshot(res)); err != nil {
				return err
			}

			ok("Wrote %d album(s) to %s", len(res.Albums), path)
			for _, e := range res.Errors {
				fail("%s: %s", e.FeedID, e.Err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cached, "cached", false, "Write the cached snapshot instead of the static one")
	return cmd
}
