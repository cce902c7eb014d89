// Package rss fetches music RSS feeds and interprets their Podcasting
// 2.0 metadata: album payloads, publisher manifests, and feed type
// detection.
package rss

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ChadFarrow/feedctl/internal/ratelimit"
	"github.com/ChadFarrow/feedctl/internal/registry"
)

const defaultTimeout = 30 * time.Second

// Client fetches and interprets music RSS feeds. All fetches share one
// rate gate and carry a per-request timeout bounded by the caller's
// context, whichever expires first.
type Client struct {
	parser  *gofeed.Parser
	gate    *ratelimit.Gate
	timeout time.Duration
}

// Options configures a Client.
type Options struct {
	// Timeout bounds each fetch+parse. Defaults to 30s.
	Timeout time.Duration
	// Gate spaces out requests. Nil means no pacing.
	Gate *ratelimit.Gate
	// UserAgent overrides the HTTP User-Agent header.
	UserAgent string
}

// New creates a Client.
func New(opts Options) *Client {
	p := gofeed.NewParser()
	if opts.UserAgent != "" {
		p.UserAgent = opts.UserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{parser: p, gate: opts.Gate, timeout: timeout}
}

func (c *Client) fetch(ctx context.Context, url string) (*gofeed.Feed, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	feed, err := c.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	return feed, nil
}

// DetectType reports whether the feed at url is an album feed or a
// publisher manifest. A channel-level podcast:medium of "publisher"
// marks a publisher, as does any channel-level remote item pointing at
// other feeds. An album's own back-reference to its publisher does not
// count.
func (c *Client) DetectType(ctx context.Context, url string) (registry.Type, error) {
	feed, err := c.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	if strings.EqualFold(podcastValue(feed, "medium"), "publisher") {
		return registry.TypePublisher, nil
	}
	for _, ri := range remoteItems(feed) {
		if !strings.EqualFold(ri.Medium, "publisher") {
			return registry.TypePublisher, nil
		}
	}
	return registry.TypeAlbum, nil
}
