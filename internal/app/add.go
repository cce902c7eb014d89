package app

import (
	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/registry"
)

func newAddCmd() *cobra.Command {
	var (
		feedID   string
		title    string
		typeStr  string
		priority string
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Register a feed",
		Long: `Register an album or publisher feed by URL. The feed id and title
are derived from the URL unless given explicitly. Duplicate URLs are
rejected.

Examples:
  feedctl add https://music.example.com/feeds/neon-nights.xml
  feedctl add https://label.example.com/feed.xml --type publisher --title "The Label"
  feedctl add https://music.example.com/feeds/b-sides.xml --id b-sides --priority extended`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			feed := registry.Feed{
				ID:          feedID,
				OriginalURL: args[0],
				Title:       title,
			}

			if typeStr != "" {
				typ, err := registry.ParseType(typeStr)
				if err != nil {
					return err
				}
				feed.Type = typ
			}
			if priority != "" {
				pri, err := registry.ParsePriority(priority)
				if err != nil {
					return err
				}
				feed.Priority = pri
			}

			added, err := store.Add(feed)
			if err != nil {
				return err
			}

			ok("Registered %s (%s, %s priority)", added.ID, added.Type, added.Priority)
			return nil
		},
	}

	cmd.Flags().StringVar(&feedID, "id", "", "Feed id (default: derived from the URL)")
	cmd.Flags().StringVar(&title, "title", "", "Feed title (default: derived from the URL)")
	cmd.Flags().StringVar(&typeStr, "type", "", "Feed type: album or publisher (default album)")
	cmd.Flags().StringVar(&priority, "priority", "", "Priority: core, extended, or low (default core)")
	return cmd
}
