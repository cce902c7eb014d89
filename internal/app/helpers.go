package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/ChadFarrow/feedctl/internal/dbstore"
	"github.com/ChadFarrow/feedctl/internal/registry"
)

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printFeedsText prints feeds as an aligned table.
func printFeedsText(feeds []registry.Feed) {
	if len(feeds) == 0 {
		fmt.Println("No feeds match.")
		return
	}

	idWidth := len("ID")
	for _, f := range feeds {
		if len(f.ID) > idWidth {
			idWidth = len(f.ID)
		}
	}

	fmt.Printf("%-*s  %-9s  %-8s  %-8s  %s\n", idWidth, "ID", "TYPE", "PRIORITY", "STATUS", "URL")
	for _, f := range feeds {
		status := color.GreenString("%-8s", string(f.Status))
		if f.Status != registry.StatusActive {
			status = color.YellowString("%-8s", string(f.Status))
		}
		fmt.Printf("%-*s  %-9s  %-8s  %s  %s\n", idWidth, f.ID, f.Type, f.Priority, status, f.OriginalURL)
	}
	fmt.Printf("\n%d feed(s)\n", len(feeds))
}

// sqliteBackend opens the mirror per call so commands that never touch
// the database source don't create or hold the file.
type sqliteBackend struct {
	path string
}

func (b sqliteBackend) ActiveAlbumFeeds(ctx context.Context) ([]registry.Feed, error) {
	if b.path == "" {
		return nil, fmt.Errorf("no database path configured")
	}
	if _, err := os.Stat(b.path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not created yet (run 'feedctl db sync')")
	}
	db, err := dbstore.Open(b.path)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return db.ActiveAlbumFeeds(ctx)
}
