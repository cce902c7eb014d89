package albums

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ChadFarrow/feedctl/internal/rss"
	"github.com/ChadFarrow/feedctl/internal/util"
)

// Snapshot is the on-disk album listing served when live parsing is
// unavailable or unwanted.
type Snapshot struct {
	Albums      []rss.Album `json:"albums"`
	Count       int         `json:"count"`
	Timestamp   time.Time   `json:"timestamp"`
	Source      string      `json:"source"`
	Generated   bool        `json:"generated"`
	GeneratedAt time.Time   `json:"generatedAt"`
	Errors      []FeedError `json:"errors,omitempty"`
}

// NewSnapshot converts a fetch result into a writable snapshot.
func NewSnapshot(res *FetchResult) *Snapshot {
	now := time.Now().UTC()
	albums := res.Albums
	if albums == nil {
		albums = []rss.Album{}
	}
	return &Snapshot{
		Albums:      albums,
		Count:       len(albums),
		Timestamp:   now,
		Source:      res.Source,
		Generated:   true,
		GeneratedAt: now,
		Errors:      res.Errors,
	}
}

// ReadSnapshot loads a snapshot file. A missing file is not an error;
// it returns (nil, nil) so callers can fall through to other sources.
func ReadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// WriteSnapshot persists a snapshot atomically.
func WriteSnapshot(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')
	return util.WriteFileAtomic(path, data, 0644)
}
