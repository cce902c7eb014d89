// Package resolve maps URL identifiers to the feed and album they
// name. Resolution tries, in order: a publisher match, a direct album
// feed id, a live title match across active album feeds, and finally
// the static snapshot.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ChadFarrow/feedctl/internal/registry"
	"github.com/ChadFarrow/feedctl/internal/rss"
	"github.com/ChadFarrow/feedctl/internal/slugs"
)

// ErrNotFound reports that no feed matches the identifier.
var ErrNotFound = errors.New("no feed matches identifier")

// Kind tells callers what a Result holds.
type Kind string

const (
	KindAlbum     Kind = "album"
	KindPublisher Kind = "publisher"
)

// AlbumParser turns one feed URL into album data.
type AlbumParser interface {
	ParseAlbum(ctx context.Context, url string) (*rss.Album, error)
}

// StaticSource serves albums from the static snapshot.
type StaticSource interface {
	StaticAlbums(ctx context.Context) []rss.Album
}

// Result is a successful resolution. Album is nil for publishers.
type Result struct {
	Kind  Kind          `json:"kind"`
	Feed  registry.Feed `json:"feed"`
	Album *rss.Album    `json:"album,omitempty"`
}

// Options configure a Resolver.
type Options struct {
	// Overrides supplies the curated slug table. Nil means no
	// overrides.
	Overrides *slugs.Table
	// Timeout caps each feed parse.
	Timeout time.Duration
	Logger  *slog.Logger
}

const defaultTimeout = 30 * time.Second

// Resolver resolves identifiers against the registry.
type Resolver struct {
	store   *registry.Store
	parser  AlbumParser
	static  StaticSource
	table   *slugs.Table
	timeout time.Duration
	log     *slog.Logger
}

// New creates a Resolver. static may be nil when no snapshot fallback
// is wanted.
func New(store *registry.Store, parser AlbumParser, static StaticSource, opts Options) *Resolver {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Resolver{
		store:   store,
		parser:  parser,
		static:  static,
		table:   opts.Overrides,
		timeout: opts.Timeout,
		log:     opts.Logger,
	}
}

// Resolve maps an identifier to a feed. Identifiers are matched
// case-insensitively. Publishers win over albums with the same
// identifier, and a registered feed whose id matches exactly beats a
// title match.
func (r *Resolver) Resolve(ctx context.Context, identifier string) (*Result, error) {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if id == "" {
		return nil, fmt.Errorf("%q: %w", identifier, ErrNotFound)
	}

	feeds, err := r.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading registry: %w", err)
	}

	// Publishers short-circuit: an identifier naming a publisher
	// never falls through to album resolution.
	publishers := (registry.Filter{Type: registry.TypePublisher, Status: registry.StatusActive}).Apply(feeds)
	for _, f := range publishers {
		if strings.EqualFold(f.ID, id) || slugs.Simple(f.Title) == id || r.table.Rich(f.Title) == id {
			return &Result{Kind: KindPublisher, Feed: f}, nil
		}
	}

	active := (registry.Filter{Type: registry.TypeAlbum, Status: registry.StatusActive}).Apply(feeds)

	// Direct id match. A parse failure here is not fatal: the
	// identifier may still match another feed by title.
	for _, f := range active {
		if !strings.EqualFold(f.ID, id) {
			continue
		}
		album, err := r.parse(ctx, f.OriginalURL)
		if err != nil {
			r.log.Warn("direct match unparseable, trying title match", "feed", f.ID, "error", err)
			break
		}
		album.FeedID = f.ID
		return &Result{Kind: KindAlbum, Feed: f, Album: album}, nil
	}

	// Live title match, first hit wins.
	for _, f := range active {
		album, err := r.parse(ctx, f.OriginalURL)
		if err != nil {
			r.log.Warn("feed parse failed during resolution", "feed", f.ID, "error", err)
			continue
		}
		if r.matchesTitle(id, album.Title) {
			album.FeedID = f.ID
			return &Result{Kind: KindAlbum, Feed: f, Album: album}, nil
		}
	}

	// Static snapshot fallback for albums that stopped resolving live.
	if r.static != nil {
		for _, album := range r.static.StaticAlbums(ctx) {
			if !r.matchesTitle(id, album.Title) {
				continue
			}
			a := album
			f := registry.Feed{
				ID:          "static-" + id,
				OriginalURL: a.FeedURL,
				Type:        registry.TypeAlbum,
				Status:      registry.StatusActive,
				Title:       a.Title,
			}
			a.FeedID = f.ID
			return &Result{Kind: KindAlbum, Feed: f, Album: &a}, nil
		}
	}

	return nil, fmt.Errorf("%q: %w", identifier, ErrNotFound)
}

// matchesTitle reports whether any slug rendering of title equals id.
// Titles with a " - Subtitle" suffix also match on the base title, so
// "Midnight Run - Live Session" answers to "midnight-run".
func (r *Resolver) matchesTitle(id, title string) bool {
	if title == "" {
		return false
	}
	if strings.ToLower(title) == id {
		return true
	}
	if r.table.Rich(title) == id || slugs.Simple(title) == id {
		return true
	}
	base := slugs.BaseTitle(title)
	if base == title {
		return false
	}
	return r.table.Rich(base) == id || slugs.Simple(base) == id
}

func (r *Resolver) parse(ctx context.Context, url string) (*rss.Album, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.parser.ParseAlbum(ctx, url)
}
