package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/resolve"
)

func newResolveCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "resolve <identifier>",
		Short: "Resolve a page identifier to a feed",
		Long: `Resolve an identifier the way the site's album pages do: publisher
feeds win outright, then a direct feed id, then live title matching,
then the static snapshot.

Examples:
  feedctl resolve neon-nights
  feedctl resolve midnight-run --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(res)
			}

			switch res.Kind {
			case resolve.KindPublisher:
				header("Publisher: %s", res.Feed.Title)
				fmt.Printf("  id:  %s\n", res.Feed.ID)
				fmt.Printf("  url: %s\n", res.Feed.OriginalURL)
			case resolve.KindAlbum:
				header("Album: %s", res.Album.Title)
				if res.Album.Artist != "" {
					fmt.Printf("  artist: %s\n", res.Album.Artist)
				}
				fmt.Printf("  feed:   %s\n", res.Feed.ID)
				fmt.Printf("  url:    %s\n", res.Feed.OriginalURL)
				fmt.Printf("  tracks: %d\n", len(res.Album.Tracks))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
