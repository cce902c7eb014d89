// Package discovery walks publisher manifests and registers the album
// feeds they list. The pass is idempotent: URLs already in the
// registry are skipped, and a URL appearing twice across (or within)
// manifests registers once.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/ChadFarrow/feedctl/internal/registry"
	"github.com/ChadFarrow/feedctl/internal/rss"
	"github.com/ChadFarrow/feedctl/internal/slugs"
)

// PublisherParser fetches a publisher feed's remote-item manifest.
type PublisherParser interface {
	ParsePublisher(ctx context.Context, url string) (*rss.PublisherFeed, error)
}

// Discoverer expands the registry from publisher manifests.
type Discoverer struct {
	store  *registry.Store
	parser PublisherParser
	log    *slog.Logger
}

// New creates a Discoverer.
func New(store *registry.Store, parser PublisherParser, log *slog.Logger) *Discoverer {
	if log == nil {
		log = slog.Default()
	}
	return &Discoverer{store: store, parser: parser, log: log}
}

// Report summarizes one discovery pass.
type Report struct {
	Publishers int             `json:"publishers"`
	Inspected  int             `json:"inspected"`
	Added      []registry.Feed `json:"added"`
	Skipped    int             `json:"skipped"`
	// Failures collects per-publisher fetch errors and per-item
	// registration errors. One bad publisher never stops the pass.
	Failures error `json:"-"`
	// Unverified lists URLs that were reported added but missing on
	// re-read. They indicate an external writer racing the pass and
	// are warnings, not errors.
	Unverified []string `json:"unverified,omitempty"`
}

// Run walks every active publisher feed and registers unseen music
// remote items as extended-priority album feeds, recording which
// publisher they came from. After the pass it re-reads the registry
// and verifies every reported addition actually persisted.
func (d *Discoverer) Run(ctx context.Context) (*Report, error) {
	publishers, err := d.store.ByType(registry.TypePublisher)
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}
	all, err := d.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	// Seed the seen-set from the whole registry, inactive records
	// included: a disabled feed is still a registered URL.
	seen := make(map[string]struct{}, len(all))
	for _, f := range all {
		seen[f.OriginalURL] = struct{}{}
	}

	report := &Report{Publishers: len(publishers)}

	for _, pub := range publishers {
		if ctx.Err() != nil {
			report.Failures = multierror.Append(report.Failures, ctx.Err())
			break
		}

		manifest, err := d.parser.ParsePublisher(ctx, pub.OriginalURL)
		if err != nil {
			d.log.Warn("publisher fetch failed", "feed", pub.ID, "url", pub.OriginalURL, "error", err)
			report.Failures = multierror.Append(report.Failures, fmt.Errorf("%s: %w", pub.ID, err))
			continue
		}

		for _, item := range manifest.RemoteItems {
			report.Inspected++

			if !strings.EqualFold(item.Medium, "music") {
				report.Skipped++
				continue
			}
			url := strings.TrimSpace(item.FeedURL)
			if url == "" {
				report.Skipped++
				continue
			}
			if _, dup := seen[url]; dup {
				report.Skipped++
				continue
			}

			id := item.FeedGUID
			if id == "" {
				id = slugs.DeriveID(url)
			}

			added, err := d.store.Add(registry.Feed{
				ID:             id,
				OriginalURL:    url,
				Type:           registry.TypeAlbum,
				Title:          item.Title,
				Priority:       registry.PriorityExtended,
				Source:         registry.SourceRecursive,
				DiscoveredFrom: pub.OriginalURL,
			})
			if err != nil {
				d.log.Warn("discovered feed not registered", "publisher", pub.ID, "url", url, "error", err)
				report.Failures = multierror.Append(report.Failures, fmt.Errorf("%s: %w", url, err))
				continue
			}

			seen[url] = struct{}{}
			report.Added = append(report.Added, added)
			d.log.Info("feed discovered", "publisher", pub.ID, "feed", added.ID)
		}
	}

	d.verify(report)
	return report, nil
}

// verify re-reads the registry and checks every reported addition by
// URL membership.
func (d *Discoverer) verify(report *Report) {
	if len(report.Added) == 0 {
		return
	}

	d.store.Invalidate()
	fresh, err := d.store.Load()
	if err != nil {
		d.log.Warn("post-pass verification skipped", "error", err)
		return
	}

	urls := make(map[string]struct{}, len(fresh))
	for _, f := range fresh {
		urls[f.OriginalURL] = struct{}{}
	}
	for _, added := range report.Added {
		if _, ok := urls[added.OriginalURL]; !ok {
			d.log.Warn("discovered feed missing after save", "feed", added.ID, "url", added.OriginalURL)
			report.Unverified = append(report.Unverified, added.OriginalURL)
		}
	}
}
