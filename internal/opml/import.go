// Package opml moves feed subscriptions between the registry and OPML
// outline documents.
package opml

import (
	"errors"
	"fmt"

	goopml "github.com/gilliek/go-opml/opml"
	"github.com/hashicorp/go-multierror"

	"github.com/ChadFarrow/feedctl/internal/registry"
)

// Result summarizes one import.
type Result struct {
	// Scanned counts outlines that carried a feed URL.
	Scanned int
	Added   []registry.Feed
	// Skipped counts URLs already registered.
	Skipped int
	// Failures collects per-outline registration errors.
	Failures error
}

// Import registers every feed URL found in the OPML file at path.
// Outlines are walked recursively so grouped subscriptions import
// too. URLs already in the registry count as skipped, not as errors.
func Import(store *registry.Store, path string) (*Result, error) {
	doc, err := goopml.NewOPMLFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OPML %s: %w", path, err)
	}

	res := &Result{}
	walk(store, doc.Outlines(), res)
	return res, nil
}

func walk(store *registry.Store, outlines []goopml.Outline, res *Result) {
	for _, o := range outlines {
		if o.XMLURL != "" {
			res.Scanned++
			title := o.Title
			if title == "" {
				title = o.Text
			}
			added, err := store.Add(registry.Feed{OriginalURL: o.XMLURL, Title: title})
			switch {
			case errors.Is(err, registry.ErrDuplicateFeed):
				res.Skipped++
			case err != nil:
				res.Failures = multierror.Append(res.Failures, fmt.Errorf("%s: %w", o.XMLURL, err))
			default:
				res.Added = append(res.Added, added)
			}
		}
		walk(store, o.Outlines, res)
	}
}
