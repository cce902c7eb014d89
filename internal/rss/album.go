package rss

import (
	"context"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// Album is the parsed payload of one album feed. JSON field names are
// camelCase to match the documents the site already serves.
type Album struct {
	FeedID      string        `json:"feedId"`
	FeedURL     string        `json:"feedUrl"`
	FeedGUID    string        `json:"feedGuid,omitempty"`
	Title       string        `json:"title"`
	Artist      string        `json:"artist,omitempty"`
	Description string        `json:"description,omitempty"`
	CoverArt    string        `json:"coverArt,omitempty"`
	Link        string        `json:"link,omitempty"`
	ReleaseDate string        `json:"releaseDate,omitempty"`
	Explicit    bool          `json:"explicit,omitempty"`
	Publisher   *PublisherRef `json:"publisher,omitempty"`
	Tracks      []Track       `json:"tracks"`
}

// Track is one audio item within an album feed.
type Track struct {
	Title       string `json:"title"`
	Duration    string `json:"duration,omitempty"`
	URL         string `json:"url"`
	TrackNumber int    `json:"trackNumber"`
	Image       string `json:"image,omitempty"`
	Explicit    bool   `json:"explicit,omitempty"`
}

// PublisherRef is an album feed's back-reference to the publisher
// manifest that lists it.
type PublisherRef struct {
	FeedGUID string `json:"feedGuid,omitempty"`
	FeedURL  string `json:"feedUrl,omitempty"`
	Medium   string `json:"medium,omitempty"`
}

// ParseAlbum fetches url and maps the feed into an Album. FeedID is
// left empty; callers stamp it with the registry identity they
// resolved the URL from.
func (c *Client) ParseAlbum(ctx context.Context, url string) (*Album, error) {
	feed, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return albumFromFeed(url, feed), nil
}

func albumFromFeed(url string, feed *gofeed.Feed) *Album {
	a := &Album{
		FeedURL:     url,
		FeedGUID:    podcastValue(feed, "guid"),
		Title:       strings.TrimSpace(feed.Title),
		Description: strings.TrimSpace(feed.Description),
		Link:        feed.Link,
		Publisher:   publisherRef(feed),
		Tracks:      []Track{},
	}

	if it := feed.ITunesExt; it != nil {
		a.Artist = strings.TrimSpace(it.Author)
		a.CoverArt = it.Image
		a.Explicit = explicitFlag(it.Explicit)
	}
	if a.Artist == "" && len(feed.Authors) > 0 && feed.Authors[0] != nil {
		a.Artist = strings.TrimSpace(feed.Authors[0].Name)
	}
	if a.CoverArt == "" && feed.Image != nil {
		a.CoverArt = feed.Image.URL
	}
	if feed.PublishedParsed != nil {
		a.ReleaseDate = feed.PublishedParsed.UTC().Format(time.RFC3339)
	} else if feed.UpdatedParsed != nil {
		a.ReleaseDate = feed.UpdatedParsed.UTC().Format(time.RFC3339)
	}

	for _, item := range feed.Items {
		enc := audioEnclosure(item)
		if enc == nil {
			continue
		}
		tr := Track{
			Title:       strings.TrimSpace(item.Title),
			URL:         enc.URL,
			TrackNumber: len(a.Tracks) + 1,
		}
		if it := item.ITunesExt; it != nil {
			tr.Duration = it.Duration
			tr.Image = it.Image
			tr.Explicit = explicitFlag(it.Explicit)
		}
		if tr.Image == "" && item.Image != nil {
			tr.Image = item.Image.URL
		}
		a.Tracks = append(a.Tracks, tr)
	}
	return a
}

// publisherRef finds the publisher back-reference: a remote item
// nested under podcast:publisher, or a bare channel-level remote item
// with medium="publisher".
func publisherRef(feed *gofeed.Feed) *PublisherRef {
	exts, ok := feed.Extensions["podcast"]
	if !ok {
		return nil
	}
	for _, pub := range exts["publisher"] {
		for _, e := range pub.Children["remoteItem"] {
			ri := remoteItemFromExt(e)
			return &PublisherRef{FeedGUID: ri.FeedGUID, FeedURL: ri.FeedURL, Medium: ri.Medium}
		}
	}
	for _, e := range exts["remoteItem"] {
		ri := remoteItemFromExt(e)
		if strings.EqualFold(ri.Medium, "publisher") {
			return &PublisherRef{FeedGUID: ri.FeedGUID, FeedURL: ri.FeedURL, Medium: ri.Medium}
		}
	}
	return nil
}

// audioEnclosure returns the first audio enclosure of an item, or nil.
// Enclosures without a declared MIME type are assumed to be audio;
// music feeds in the wild frequently omit it.
func audioEnclosure(item *gofeed.Item) *gofeed.Enclosure {
	for _, enc := range item.Enclosures {
		if enc == nil || enc.URL == "" {
			continue
		}
		if enc.Type == "" || strings.HasPrefix(enc.Type, "audio/") {
			return enc
		}
	}
	return nil
}

func explicitFlag(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "explicit":
		return true
	}
	return false
}
