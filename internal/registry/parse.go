package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/ChadFarrow/feedctl/internal/slugs"
)

// Parse decodes registry JSON in any of the three shapes the file has
// carried over its lifetime: the canonical document, a bare array of
// feed records, or a bare array of URL strings. Shape detection lives
// here and nowhere else; callers only ever see the canonical document.
func Parse(data []byte) (Document, error) {
	doc := Document{Feeds: []Feed{}, Version: 1}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return doc, nil
	}

	switch data[0] {
	case '{':
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("parsing registry document: %w", err)
		}
	case '[':
		feeds, err := parseArray(data)
		if err != nil {
			return Document{}, err
		}
		doc.Feeds = feeds
	default:
		return Document{}, fmt.Errorf("parsing registry: unrecognized JSON shape")
	}

	if doc.Feeds == nil {
		doc.Feeds = []Feed{}
	}
	if doc.Version == 0 {
		doc.Version = 1
	}
	for i := range doc.Feeds {
		normalize(&doc.Feeds[i])
	}
	return doc, nil
}

// parseArray handles the two legacy array shapes, element by element,
// so a file mixing record objects and plain URL strings still loads.
func parseArray(data []byte) ([]Feed, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing registry array: %w", err)
	}

	feeds := make([]Feed, 0, len(raw))
	for i, el := range raw {
		el = bytes.TrimSpace(el)
		if len(el) == 0 {
			continue
		}
		switch el[0] {
		case '"':
			var u string
			if err := json.Unmarshal(el, &u); err != nil {
				return nil, fmt.Errorf("parsing registry entry %d: %w", i, err)
			}
			feeds = append(feeds, Feed{OriginalURL: u})
		case '{':
			var f Feed
			if err := json.Unmarshal(el, &f); err != nil {
				return nil, fmt.Errorf("parsing registry entry %d: %w", i, err)
			}
			feeds = append(feeds, f)
		default:
			return nil, fmt.Errorf("parsing registry entry %d: unrecognized shape", i)
		}
	}
	return feeds, nil
}

// normalize fills the defaults legacy records are missing.
func normalize(f *Feed) {
	f.OriginalURL = strings.TrimSpace(f.OriginalURL)
	if f.ID == "" {
		f.ID = slugs.DeriveID(f.OriginalURL)
	}
	if f.Type == "" {
		f.Type = TypeAlbum
	}
	if f.Priority == "" {
		f.Priority = PriorityCore
	}
	if f.Status == "" {
		f.Status = StatusActive
	}
	if f.Source == "" {
		f.Source = SourceManual
	}
	if f.Title == "" {
		f.Title = InferTitle(f.OriginalURL)
	}
}

// InferTitle derives a placeholder title from a feed URL: the last
// path segment without its extension, or the host when the URL has no
// usable path.
func InferTitle(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	seg := path.Base(strings.TrimRight(u.Path, "/"))
	if seg == "." || seg == "/" {
		seg = ""
	}
	seg = strings.TrimSuffix(seg, path.Ext(seg))
	seg = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(seg))
	if seg == "" {
		return u.Host
	}
	return seg
}
