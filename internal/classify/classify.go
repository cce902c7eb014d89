// Package classify decides whether registered feeds are album feeds or
// publisher manifests, and repairs records that were registered under
// the default type.
package classify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ChadFarrow/feedctl/internal/registry"
)

// ErrClassification wraps any failure to determine a feed's type. The
// record's existing type is left untouched when it occurs.
var ErrClassification = errors.New("feed type classification failed")

// TypeDetector resolves the feed kind served at a URL.
type TypeDetector interface {
	DetectType(ctx context.Context, url string) (registry.Type, error)
}

// Classifier inspects live feeds and reconciles registry types.
type Classifier struct {
	store *registry.Store
	det   TypeDetector
	log   *slog.Logger
}

// New creates a Classifier.
func New(store *registry.Store, det TypeDetector, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{store: store, det: det, log: log}
}

// Classify fetches url and reports its detected type.
func (c *Classifier) Classify(ctx context.Context, url string) (registry.Type, error) {
	t, err := c.det.DetectType(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrClassification, err)
	}
	return t, nil
}

// Flip records one feed whose detected type differs from its stored
// type.
type Flip struct {
	FeedID string        `json:"feedId"`
	From   registry.Type `json:"from"`
	To     registry.Type `json:"to"`
}

// Report summarizes a reclassification pass.
type Report struct {
	Checked int    `json:"checked"`
	Changed int    `json:"changed"`
	Flips   []Flip `json:"flips,omitempty"`
	// Failures collects per-feed classification errors. The pass never
	// aborts on one feed.
	Failures error `json:"-"`
}

// ReclassifyAll walks every active feed still carrying the default
// album type, detects its real type, and persists all flips in a
// single registry write. The detector's shared gate paces requests.
func (c *Classifier) ReclassifyAll(ctx context.Context) (*Report, error) {
	feeds, err := c.store.Active()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	report := &Report{}
	detected := make(map[string]registry.Type)

	for _, f := range feeds {
		if f.Type != registry.TypeAlbum {
			continue
		}
		if ctx.Err() != nil {
			report.Failures = multierror.Append(report.Failures, ctx.Err())
			break
		}
		report.Checked++

		t, err := c.Classify(ctx, f.OriginalURL)
		if err != nil {
			c.log.Warn("classification failed", "feed", f.ID, "url", f.OriginalURL, "error", err)
			report.Failures = multierror.Append(report.Failures, fmt.Errorf("%s: %w", f.ID, err))
			continue
		}
		if t != f.Type {
			detected[f.ID] = t
			report.Flips = append(report.Flips, Flip{FeedID: f.ID, From: f.Type, To: t})
		}
	}

	if len(detected) == 0 {
		return report, nil
	}

	now := time.Now().UTC()
	changed, err := c.store.BatchUpdate(func(feeds []registry.Feed) int {
		n := 0
		for i := range feeds {
			t, ok := detected[feeds[i].ID]
			if !ok || feeds[i].Type == t {
				continue
			}
			feeds[i].Type = t
			feeds[i].LastUpdated = now
			n++
		}
		return n
	})
	if err != nil {
		return report, fmt.Errorf("persisting reclassification: %w", err)
	}
	report.Changed = changed
	return report, nil
}
