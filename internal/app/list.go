package app

import (
	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/registry"
)

func newListCmd() *cobra.Command {
	var (
		typeStr  string
		priority string
		status   string
		search   string
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered feeds",
		Long: `List feeds in the registry, optionally filtered.

Examples:
  feedctl list
  feedctl list --type publisher
  feedctl list --status inactive
  feedctl list --search night --json`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			feeds, err := store.Load()
			if err != nil {
				return err
			}

			filter := registry.Filter{Search: search}
			if typeStr != "" {
				if filter.Type, err = registry.ParseType(typeStr); err != nil {
					return err
				}
			}
			if priority != "" {
				if filter.Priority, err = registry.ParsePriority(priority); err != nil {
					return err
				}
			}
			if status != "" {
				if filter.Status, err = registry.ParseStatus(status); err != nil {
					return err
				}
			}
			feeds = filter.Apply(feeds)

			if jsonOut {
				return printJSON(feeds)
			}
			printFeedsText(feeds)
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "", "Only feeds of this type (album or publisher)")
	cmd.Flags().StringVar(&priority, "priority", "", "Only feeds with this priority")
	cmd.Flags().StringVar(&status, "status", "", "Only feeds with this status")
	cmd.Flags().StringVar(&search, "search", "", "Match against id, title, or URL")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
