package rss

import (
	"context"
	"strings"
)

// RemoteItem is one podcast:remoteItem reference from a publisher
// manifest.
type RemoteItem struct {
	FeedGUID string `json:"feedGuid,omitempty"`
	FeedURL  string `json:"feedUrl,omitempty"`
	ItemGUID string `json:"itemGuid,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Title    string `json:"title,omitempty"`
}

// PublisherFeed is the parsed manifest of a publisher feed: the remote
// items the publisher claims as its own.
type PublisherFeed struct {
	Title       string       `json:"title"`
	GUID        string       `json:"guid,omitempty"`
	RemoteItems []RemoteItem `json:"remoteItems"`
}

// ParsePublisher fetches url and extracts its remote-item manifest.
func (c *Client) ParsePublisher(ctx context.Context, url string) (*PublisherFeed, error) {
	feed, err := c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return &PublisherFeed{
		Title:       strings.TrimSpace(feed.Title),
		GUID:        podcastValue(feed, "guid"),
		RemoteItems: remoteItems(feed),
	}, nil
}
