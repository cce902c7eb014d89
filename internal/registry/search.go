package registry

import "strings"

// Filter selects feeds matching all non-empty criteria.
type Filter struct {
	Type     Type
	Priority Priority
	Status   Status
	Search   string // matches id, title, or URL
}

// Apply returns the subset of feeds matching every set field.
func (f Filter) Apply(feeds []Feed) []Feed {
	var out []Feed
	for _, fd := range feeds {
		if f.Type != "" && fd.Type != f.Type {
			continue
		}
		if f.Priority != "" && fd.Priority != f.Priority {
			continue
		}
		if f.Status != "" && fd.Status != f.Status {
			continue
		}
		if f.Search != "" && !matchesSearch(fd, f.Search) {
			continue
		}
		out = append(out, fd)
	}
	return out
}

// ByID returns the feed with the given ID, or nil.
func ByID(feeds []Feed, id string) *Feed {
	for i := range feeds {
		if feeds[i].ID == id {
			return &feeds[i]
		}
	}
	return nil
}

// ByURL returns the feed registered under the given URL, or nil.
func ByURL(feeds []Feed, url string) *Feed {
	for i := range feeds {
		if feeds[i].OriginalURL == url {
			return &feeds[i]
		}
	}
	return nil
}

func matchesSearch(f Feed, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(f.Title), q) ||
		strings.Contains(strings.ToLower(f.ID), q) ||
		strings.Contains(strings.ToLower(f.OriginalURL), q)
}
