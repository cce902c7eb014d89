package app

import (
	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/dbstore"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the SQLite mirror of the registry",
		Long: `The mirror is a read model for the database album source. The JSON
registry stays the source of truth; sync replaces the mirror's
contents with it.`,
	}
	cmd.AddCommand(newDBSyncCmd(), newDBListCmd())
	return cmd
}

func newDBSyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Mirror the registry into SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			feeds, err := store.Load()
			if err != nil {
				return err
			}

			db, err := dbstore.Open(cfg.EffectiveDatabasePath())
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Sync(cmd.Context(), feeds); err != nil {
				return err
			}
			ok("Synced %d feed(s) to %s", len(feeds), cfg.EffectiveDatabasePath())
			return nil
		},
	}
}

func newDBListCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feeds from the SQLite mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := dbstore.Open(cfg.EffectiveDatabasePath())
			if err != nil {
				return err
			}
			defer db.Close()

			feeds, err := db.List(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return printJSON(feeds)
			}
			printFeedsText(feeds)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
