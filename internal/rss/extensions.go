package rss

import (
	"strings"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// podcastValue returns the text of a channel-level podcast namespace
// element, or "" when absent.
func podcastValue(feed *gofeed.Feed, name string) string {
	exts, ok := feed.Extensions["podcast"]
	if !ok {
		return ""
	}
	for _, e := range exts[name] {
		if v := strings.TrimSpace(e.Value); v != "" {
			return v
		}
	}
	return ""
}

// remoteItems extracts the channel-level podcast:remoteItem entries.
func remoteItems(feed *gofeed.Feed) []RemoteItem {
	exts, ok := feed.Extensions["podcast"]
	if !ok {
		return nil
	}
	var items []RemoteItem
	for _, e := range exts["remoteItem"] {
		items = append(items, remoteItemFromExt(e))
	}
	return items
}

func remoteItemFromExt(e ext.Extension) RemoteItem {
	return RemoteItem{
		FeedGUID: e.Attrs["feedGuid"],
		FeedURL:  e.Attrs["feedUrl"],
		ItemGUID: e.Attrs["itemGuid"],
		Medium:   e.Attrs["medium"],
		Title:    e.Attrs["title"],
	}
}
