package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file and an empty registry",
		Long: `Write the default config and create the registry file. An existing
registry is left alone.

Examples:
  feedctl init
  feedctl init --config ./feedctl.yml`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			path := flagConfig
			if path == "" {
				path = config.DefaultPath()
			}

			if _, err := os.Stat(path); err == nil && !force {
				warn("Config already exists at %s (use --force to overwrite)", path)
			} else {
				if err := config.Save(cfg, path); err != nil {
					return fmt.Errorf("writing config: %w", err)
				}
				ok("Config written to %s", path)
			}

			if err := store.Init(); err != nil {
				return fmt.Errorf("creating registry: %w", err)
			}
			ok("Registry ready at %s", store.Path())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}
