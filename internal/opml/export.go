package opml

import (
	"fmt"
	"time"

	goopml "github.com/gilliek/go-opml/opml"

	"github.com/ChadFarrow/feedctl/internal/registry"
	"github.com/ChadFarrow/feedctl/internal/util"
)

// Export writes the registry as an OPML 2.0 subscription list at path.
// Album and publisher feeds land in separate groups so other tools can
// import either set alone. Returns the number of feeds written.
func Export(store *registry.Store, path string) (int, error) {
	feeds, err := store.Load()
	if err != nil {
		return 0, err
	}

	var albums, publishers []goopml.Outline
	for _, f := range feeds {
		o := goopml.Outline{
			Text:   f.Title,
			Title:  f.Title,
			Type:   "rss",
			XMLURL: f.OriginalURL,
		}
		if f.Type == registry.TypePublisher {
			publishers = append(publishers, o)
		} else {
			albums = append(albums, o)
		}
	}

	doc := goopml.OPML{
		Version: "2.0",
		Head: goopml.Head{
			Title:       "feedctl subscriptions",
			DateCreated: time.Now().UTC().Format(time.RFC1123Z),
		},
	}
	if len(albums) > 0 {
		doc.Body.Outlines = append(doc.Body.Outlines, goopml.Outline{
			Text: "Albums", Title: "Albums", Outlines: albums,
		})
	}
	if len(publishers) > 0 {
		doc.Body.Outlines = append(doc.Body.Outlines, goopml.Outline{
			Text: "Publishers", Title: "Publishers", Outlines: publishers,
		})
	}

	xmlStr, err := doc.XML()
	if err != nil {
		return 0, fmt.Errorf("rendering OPML: %w", err)
	}
	if err := util.WriteFileAtomic(path, []byte(xmlStr), 0644); err != nil {
		return 0, fmt.Errorf("writing OPML %s: %w", path, err)
	}
	return len(feeds), nil
}
