package app

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/registry"
)

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a feed from the registry",
		Long: `Remove a feed by id. Removing an unknown id is a warning, not an
error, so scripted cleanups can run unconditionally.

Examples:
  feedctl remove neon-nights`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := store.Remove(args[0]); err != nil {
				if errors.Is(err, registry.ErrFeedNotFound) {
					warn("Feed %q is not in the registry", args[0])
					return nil
				}
				return err
			}
			ok("Removed %s", args[0])
			return nil
		},
	}
	return cmd
}
