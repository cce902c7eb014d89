package app

import (
	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/registry"
)

func newEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enable <id>",
		Short: "Mark a feed active",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return setFeedStatus(args[0], registry.StatusActive)
		},
	}
}

func newDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disable <id>",
		Short: "Mark a feed inactive without removing it",
		Long: `Mark a feed inactive. Inactive feeds keep their registry record but
are skipped by every pipeline pass until re-enabled.

Examples:
  feedctl disable neon-nights`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return setFeedStatus(args[0], registry.StatusInactive)
		},
	}
}

func setFeedStatus(id string, status registry.Status) error {
	feed, err := store.Update(id, func(f *registry.Feed) {
		f.Status = status
	})
	if err != nil {
		return err
	}
	ok("Feed %s is now %s", feed.ID, feed.Status)
	return nil
}
