// Package app wires the feedctl command tree. Shared clients are
// built once in the root command's PersistentPreRunE and consumed by
// the subcommands through package globals.
package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/albums"
	"github.com/ChadFarrow/feedctl/internal/config"
	"github.com/ChadFarrow/feedctl/internal/ratelimit"
	"github.com/ChadFarrow/feedctl/internal/registry"
	"github.com/ChadFarrow/feedctl/internal/resolve"
	"github.com/ChadFarrow/feedctl/internal/rss"
	"github.com/ChadFarrow/feedctl/internal/slugs"
	"github.com/ChadFarrow/feedctl/internal/util"
)

var (
	cfg        *config.Config
	store      *registry.Store
	feedClient *rss.Client
	slugTable  *slugs.Table
	albumsSvc  *albums.Service
	resolver   *resolve.Resolver
	logger     *slog.Logger

	flagConfig  string
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "feedctl",
	Short: "Manage a music feed registry and its album catalog",
	Long: `feedctl maintains a registry of Podcasting 2.0 music feeds: the
album feeds a site serves and the publisher feeds that list them.

The registry is a JSON file. Commands keep it reconciled (reclassify,
discover), resolve page identifiers to albums the way the site does,
aggregate album data from several sources, and serve it all over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Errors are printed once, here.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ~/.config/feedctl/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		util.InitColor(flagNoColor)

		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		slugTable, err = slugs.LoadTable(cfg.EffectiveOverridesPath())
		if err != nil {
			return fmt.Errorf("loading slug overrides: %w", err)
		}

		store = registry.NewStore(cfg.EffectiveRegistryPath())

		feedClient = rss.New(rss.Options{
			Timeout:   cfg.Parse.Timeout,
			Gate:      ratelimit.NewGate(cfg.Parse.RequestDelay),
			UserAgent: cfg.Parse.UserAgent,
		})

		albumsSvc = albums.New(store, feedClient, albums.Options{
			DB:             sqliteBackend{path: cfg.EffectiveDatabasePath()},
			StaticPath:     cfg.EffectiveStaticPath(),
			CachedPath:     cfg.EffectiveCachedPath(),
			CacheTTL:       cfg.Cache.AlbumsTTL,
			PerFeedTimeout: cfg.Parse.Timeout,
			SlowHosts:      cfg.Parse.SlowHosts,
			SlowHostDelay:  cfg.Parse.SlowHostDelay,
			Logger:         logger,
		})

		resolver = resolve.New(store, feedClient, albumsSvc, resolve.Options{
			Overrides: slugTable,
			Timeout:   cfg.Parse.Timeout,
			Logger:    logger,
		})

		return nil
	}

	rootCmd.AddCommand(
		newInitCmd(),
		newAddCmd(),
		newListCmd(),
		newRemoveCmd(),
		newEnableCmd(),
		newDisableCmd(),
		newReclassifyCmd(),
		newDiscoverCmd(),
		newResolveCmd(),
		newAlbumsCmd(),
		newSnapshotCmd(),
		newImportCmd(),
		newExportCmd(),
		newDBCmd(),
		newServeCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)
}

// ok prints a success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a warning line to stderr.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// fail prints a failure line without aborting. Commands that survive
// partial failures use it for the per-item report.
func fail(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.RedString("✗"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}
