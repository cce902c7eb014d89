package registry

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ChadFarrow/feedctl/internal/util"
)

// Store owns the registry file. Reads go through an in-memory cache;
// every mutation persists the full document synchronously before
// returning and then drops the cache, so the next read observes
// exactly what was written.
type Store struct {
	path string

	mu      sync.RWMutex
	feeds   []Feed
	version int
	loaded  bool
}

// NewStore creates a Store for the registry file at path. The file is
// read lazily on first use.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the registry file location.
func (s *Store) Path() string { return s.path }

// Load returns all feeds, reading the file on first call. A missing or
// corrupt file yields an empty registry, not an error. Callers receive
// a copy and may mutate it freely.
func (s *Store) Load() ([]Feed, error) {
	s.mu.RLock()
	if s.loaded {
		feeds := copyFeeds(s.feeds)
		s.mu.RUnlock()
		return feeds, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(); err != nil {
		return nil, err
	}
	return copyFeeds(s.feeds), nil
}

// Invalidate drops the in-memory cache. The next read hits the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.loaded = false
	s.feeds = nil
	s.mu.Unlock()
}

// Active returns active feeds only.
func (s *Store) Active() ([]Feed, error) {
	feeds, err := s.Load()
	if err != nil {
		return nil, err
	}
	return Filter{Status: StatusActive}.Apply(feeds), nil
}

// ByType returns active feeds of the given type.
func (s *Store) ByType(t Type) ([]Feed, error) {
	feeds, err := s.Load()
	if err != nil {
		return nil, err
	}
	return Filter{Status: StatusActive, Type: t}.Apply(feeds), nil
}

// ByPriority returns active feeds with the given priority.
func (s *Store) ByPriority(p Priority) ([]Feed, error) {
	feeds, err := s.Load()
	if err != nil {
		return nil, err
	}
	return Filter{Status: StatusActive, Priority: p}.Apply(feeds), nil
}

// Add registers a new feed, filling defaults for any field the caller
// left empty. Identity rules are strict: a URL registers once
// (ErrDuplicateFeed) and an ID maps to exactly one URL (ErrIDConflict);
// conflicting records are never merged.
func (s *Store) Add(f Feed) (Feed, error) {
	f.OriginalURL = strings.TrimSpace(f.OriginalURL)
	if f.OriginalURL == "" {
		return Feed{}, fmt.Errorf("add feed: empty URL")
	}
	normalize(&f)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(); err != nil {
		return Feed{}, err
	}

	if ByURL(s.feeds, f.OriginalURL) != nil {
		return Feed{}, fmt.Errorf("%s: %w", f.OriginalURL, ErrDuplicateFeed)
	}
	if existing := ByID(s.feeds, f.ID); existing != nil {
		return Feed{}, fmt.Errorf("%s (taken by %s): %w", f.ID, existing.OriginalURL, ErrIDConflict)
	}

	now := time.Now().UTC()
	f.AddedAt = now
	f.LastUpdated = now

	if err := s.saveLocked(append(copyFeeds(s.feeds), f)); err != nil {
		return Feed{}, err
	}
	return f, nil
}

// Update applies mutate to the feed with the given ID and persists the
// result. A missing ID reports ErrFeedNotFound, which callers treat as
// a non-fatal outcome.
func (s *Store) Update(id string, mutate func(*Feed)) (Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(); err != nil {
		return Feed{}, err
	}

	feeds := copyFeeds(s.feeds)
	target := ByID(feeds, id)
	if target == nil {
		return Feed{}, fmt.Errorf("%s: %w", id, ErrFeedNotFound)
	}
	mutate(target)
	target.LastUpdated = time.Now().UTC()

	if err := s.saveLocked(feeds); err != nil {
		return Feed{}, err
	}
	return *target, nil
}

// Remove deletes the feed with the given ID and persists. A missing ID
// reports ErrFeedNotFound, which callers treat as a non-fatal outcome.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(); err != nil {
		return err
	}

	feeds := copyFeeds(s.feeds)
	idx := -1
	for i := range feeds {
		if feeds[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s: %w", id, ErrFeedNotFound)
	}

	return s.saveLocked(append(feeds[:idx], feeds[idx+1:]...))
}

// BatchUpdate hands the full feed list to fn for in-place mutation.
// fn returns how many records it changed; the document is persisted
// once, and only when that count is non-zero.
func (s *Store) BatchUpdate(fn func(feeds []Feed) int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoadedLocked(); err != nil {
		return 0, err
	}

	feeds := copyFeeds(s.feeds)
	n := fn(feeds)
	if n == 0 {
		return 0, nil
	}
	if err := s.saveLocked(feeds); err != nil {
		return 0, err
	}
	return n, nil
}

// Init writes an empty canonical document if the registry file does
// not exist yet.
func (s *Store) Init() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked([]Feed{})
}

func (s *Store) ensureLoadedLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.feeds, s.version, s.loaded = []Feed{}, 1, true
			return nil
		}
		return fmt.Errorf("reading registry: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		// A corrupt registry behaves as empty rather than wedging
		// every caller.
		s.feeds, s.version, s.loaded = []Feed{}, 1, true
		return nil
	}
	s.feeds, s.version, s.loaded = doc.Feeds, doc.Version, true
	return nil
}

func (s *Store) saveLocked(feeds []Feed) error {
	data, err := Marshal(Document{
		Feeds:       feeds,
		LastUpdated: time.Now().UTC(),
		Version:     s.version,
	})
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}
	if err := util.WriteFileAtomic(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	s.loaded = false
	s.feeds = nil
	return nil
}

func copyFeeds(feeds []Feed) []Feed {
	out := make([]Feed, len(feeds))
	copy(out, feeds)
	return out
}
