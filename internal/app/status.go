package app

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ChadFarrow/feedctl/internal/albums"
	"github.com/ChadFarrow/feedctl/internal/registry"
)

type statusOutput struct {
	RegistryPath   string          `json:"registryPath"`
	Total          int             `json:"total"`
	Active         int             `json:"active"`
	Inactive       int             `json:"inactive"`
	Albums         int             `json:"albums"`
	Publishers     int             `json:"publishers"`
	Discovered     int             `json:"discovered"`
	ByPriority     map[string]int  `json:"byPriority"`
	StaticSnapshot *snapshotStatus `json:"staticSnapshot,omitempty"`
	CachedSnapshot *snapshotStatus `json:"cachedSnapshot,omitempty"`
}

type snapshotStatus struct {
	Path        string    `json:"path"`
	Albums      int       `json:"albums"`
	GeneratedAt time.Time `json:"generatedAt"`
}

func newStatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show registry and snapshot statistics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			feeds, err := store.Load()
			if err != nil {
				return err
			}

			out := collectStatus(feeds)
			out.RegistryPath = store.Path()
			out.StaticSnapshot = snapshotInfo(cfg.EffectiveStaticPath())
			out.CachedSnapshot = snapshotInfo(cfg.EffectiveCachedPath())

			if jsonOut {
				return printJSON(out)
			}
			printStatusText(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// collectStatus tallies the registry. Snapshot fields are left for the
// caller to fill in.
func collectStatus(feeds []registry.Feed) statusOutput {
	out := statusOutput{
		Total:      len(feeds),
		ByPriority: make(map[string]int),
	}
	for _, f := range feeds {
		if f.Status == registry.StatusActive {
			out.Active++
		} else {
			out.Inactive++
		}
		if f.Type == registry.TypePublisher {
			out.Publishers++
		} else {
			out.Albums++
		}
		if f.Source == registry.SourceRecursive {
			out.Discovered++
		}
		out.ByPriority[string(f.Priority)]++
	}
	return out
}

// snapshotInfo reads a snapshot's header. Missing or unreadable files
// yield nil; status reporting never fails on them.
func snapshotInfo(path string) *snapshotStatus {
	snap, err := albums.ReadSnapshot(path)
	if err != nil || snap == nil {
		return nil
	}
	return &snapshotStatus{Path: path, Albums: len(snap.Albums), GeneratedAt: snap.GeneratedAt}
}

func printStatusText(out statusOutput) {
	header("Registry: %s", out.RegistryPath)
	fmt.Printf("  %d feed(s): %d album, %d publisher\n", out.Total, out.Albums, out.Publishers)
	fmt.Printf("  %d active, %d inactive\n", out.Active, out.Inactive)
	if out.Discovered > 0 {
		fmt.Printf("  %d discovered from publishers\n", out.Discovered)
	}
	for _, p := range []registry.Priority{registry.PriorityCore, registry.PriorityExtended, registry.PriorityLow} {
		if n := out.ByPriority[string(p)]; n > 0 {
			fmt.Printf("  %-9s %d\n", string(p)+":", n)
		}
	}

	for _, snap := range []struct {
		label string
		info  *snapshotStatus
	}{
		{"Static snapshot", out.StaticSnapshot},
		{"Cached snapshot", out.CachedSnapshot},
	} {
		if snap.info == nil {
			continue
		}
		header("%s: %s", snap.label, snap.info.Path)
		fmt.Printf("  %d album(s), generated %s\n", snap.info.Albums, snap.info.GeneratedAt.Format(time.RFC3339))
	}
}
