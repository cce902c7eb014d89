// Package albums aggregates album data for the whole registry. A
// listing can come from a static snapshot file, a live parse of every
// active album feed, a database-backed feed list, or an automatic
// chain of those, and results are memoized for a short TTL.
//
// FetchAlbums never returns an error. Partial failures are recorded
// per feed in the result so one unreachable host degrades the listing
// instead of taking it down.
package albums

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ChadFarrow/feedctl/internal/ratelimit"
	"github.com/ChadFarrow/feedctl/internal/registry"
	"github.com/ChadFarrow/feedctl/internal/rss"
)

// Sources accepted by FetchAlbums.
const (
	SourceAuto         = "auto"
	SourceStatic       = "static"
	SourceStaticCached = "static-cached"
	SourceDynamic      = "dynamic"
	SourceDatabase     = "database"
)

// ValidSource reports whether s names a known album source.
func ValidSource(s string) bool {
	switch s {
	case SourceAuto, SourceStatic, SourceStaticCached, SourceDynamic, SourceDatabase:
		return true
	}
	return false
}

// AlbumParser turns one feed URL into album data.
type AlbumParser interface {
	ParseAlbum(ctx context.Context, url string) (*rss.Album, error)
}

// Backend supplies the feed list for the database source.
type Backend interface {
	ActiveAlbumFeeds(ctx context.Context) ([]registry.Feed, error)
}

// FeedError records a single feed's failure during aggregation.
// Source-level failures use a pseudo id such as "static" or
// "database".
type FeedError struct {
	FeedID string `json:"feedId"`
	URL    string `json:"url,omitempty"`
	Err    string `json:"error"`
}

// FetchResult is the aggregate outcome of one FetchAlbums call.
type FetchResult struct {
	Albums []rss.Album `json:"albums"`
	Source string      `json:"source"`
	Errors []FeedError `json:"errors,omitempty"`
	// Cached and CacheAge describe a memoized hit. CacheAge is in
	// milliseconds.
	Cached      bool      `json:"cached"`
	CacheAge    int64     `json:"cacheAge,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// FetchOptions select the source for one call.
type FetchOptions struct {
	// Source is one of the Source constants. Empty means auto.
	Source string
	// ForceRegenerate skips the cache read. The fresh result still
	// replaces the cached entry.
	ForceRegenerate bool
}

// Options configure a Service.
type Options struct {
	// DB supplies feeds for the database source. Nil is allowed; the
	// database source then serves the static snapshot instead.
	DB Backend
	// StaticPath and CachedPath locate the snapshot files.
	StaticPath string
	CachedPath string
	// CacheTTL bounds how long results are served from memory.
	CacheTTL time.Duration
	// PerFeedTimeout caps each feed parse during a live pass.
	PerFeedTimeout time.Duration
	// SlowHosts lists host substrings that get an extra
	// SlowHostDelay pause before their fetch.
	SlowHosts     []string
	SlowHostDelay time.Duration
	Logger        *slog.Logger
}

const (
	defaultCacheTTL       = 5 * time.Minute
	defaultPerFeedTimeout = 30 * time.Second
)

// Service aggregates albums across the registry's feeds.
type Service struct {
	store  *registry.Store
	parser AlbumParser
	db     Backend

	staticPath string
	cachedPath string

	perFeedTimeout time.Duration
	slowHosts      []string
	slowHostDelay  time.Duration

	cache *resultCache
	log   *slog.Logger
}

// New creates a Service. Zero option fields get working defaults.
func New(store *registry.Store, parser AlbumParser, opts Options) *Service {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.PerFeedTimeout <= 0 {
		opts.PerFeedTimeout = defaultPerFeedTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Service{
		store:          store,
		parser:         parser,
		db:             opts.DB,
		staticPath:     opts.StaticPath,
		cachedPath:     opts.CachedPath,
		perFeedTimeout: opts.PerFeedTimeout,
		slowHosts:      opts.SlowHosts,
		slowHostDelay:  opts.SlowHostDelay,
		cache:          newResultCache(opts.CacheTTL),
		log:            opts.Logger,
	}
}

// FetchAlbums aggregates albums from the requested source. The result
// is cached under the requested source name, so "auto" and the source
// it resolved to are separate entries.
func (s *Service) FetchAlbums(ctx context.Context, opts FetchOptions) *FetchResult {
	source := opts.Source
	if source == "" {
		source = SourceAuto
	}

	if !opts.ForceRegenerate {
		if hit := s.cache.get(source); hit != nil {
			return hit
		}
	}

	var res *FetchResult
	switch source {
	case SourceStatic:
		res = s.fromSnapshot(s.staticPath, SourceStatic)
	case SourceStaticCached:
		res = s.fromSnapshot(s.cachedPath, SourceStaticCached)
	case SourceDynamic:
		res = s.fetchDynamic(ctx)
	case SourceDatabase:
		res = s.fetchDatabase(ctx)
	case SourceAuto:
		res = s.fetchAuto(ctx)
	default:
		res = emptyResult(source)
		res.Errors = append(res.Errors, FeedError{FeedID: "albums", Err: fmt.Sprintf("unknown source %q", source)})
	}

	s.cache.put(source, res)
	return res
}

// ClearCache drops every memoized result.
func (s *Service) ClearCache() { s.cache.clear() }

// StaticAlbums returns the static snapshot's albums. Missing or
// unreadable snapshots yield an empty slice.
func (s *Service) StaticAlbums(ctx context.Context) []rss.Album {
	return s.FetchAlbums(ctx, FetchOptions{Source: SourceStatic}).Albums
}

func emptyResult(source string) *FetchResult {
	return &FetchResult{Source: source, Albums: []rss.Album{}, GeneratedAt: time.Now().UTC()}
}

func (s *Service) fromSnapshot(path, source string) *FetchResult {
	res := emptyResult(source)
	if path == "" {
		return res
	}

	snap, err := ReadSnapshot(path)
	if err != nil {
		s.log.Warn("snapshot unreadable", "path", path, "error", err)
		res.Errors = append(res.Errors, FeedError{FeedID: source, Err: err.Error()})
		return res
	}
	if snap == nil {
		return res
	}

	if snap.Albums != nil {
		res.Albums = snap.Albums
	}
	if !snap.GeneratedAt.IsZero() {
		res.GeneratedAt = snap.GeneratedAt
	}
	return res
}

func (s *Service) fetchDynamic(ctx context.Context) *FetchResult {
	res := emptyResult(SourceDynamic)

	feeds, err := s.store.ByType(registry.TypeAlbum)
	if err != nil {
		res.Errors = append(res.Errors, FeedError{FeedID: "registry", Err: err.Error()})
		return res
	}
	s.fetchFeeds(ctx, feeds, res)
	return res
}

func (s *Service) fetchDatabase(ctx context.Context) *FetchResult {
	if s.db == nil {
		res := s.fromSnapshot(s.staticPath, SourceStatic)
		res.Errors = append(res.Errors, FeedError{FeedID: "database", Err: "no database configured"})
		return res
	}

	feeds, err := s.db.ActiveAlbumFeeds(ctx)
	if err != nil {
		s.log.Warn("database feed list failed", "error", err)
		res := s.fromSnapshot(s.staticPath, SourceStatic)
		res.Errors = append(res.Errors, FeedError{FeedID: "database", Err: err.Error()})
		return res
	}

	res := emptyResult(SourceDatabase)
	s.fetchFeeds(ctx, feeds, res)
	return res
}

// fetchAuto prefers the static snapshot, then a live pass. When both
// come back empty the live result is returned carrying the combined
// errors.
func (s *Service) fetchAuto(ctx context.Context) *FetchResult {
	static := s.fromSnapshot(s.staticPath, SourceStatic)
	if len(static.Albums) > 0 {
		return static
	}

	dynamic := s.fetchDynamic(ctx)
	if len(dynamic.Albums) > 0 {
		return dynamic
	}

	dynamic.Errors = append(static.Errors, dynamic.Errors...)
	return dynamic
}

// fetchFeeds parses each feed in turn. The pass is sequential: small
// album hosts drop parallel bursts.
func (s *Service) fetchFeeds(ctx context.Context, feeds []registry.Feed, res *FetchResult) {
	for _, f := range feeds {
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, FeedError{FeedID: f.ID, URL: f.OriginalURL, Err: ctx.Err().Error()})
			break
		}

		if delay := s.slowDelay(f.OriginalURL); delay > 0 {
			if err := ratelimit.Sleep(ctx, delay); err != nil {
				res.Errors = append(res.Errors, FeedError{FeedID: f.ID, URL: f.OriginalURL, Err: err.Error()})
				break
			}
		}

		feedCtx, cancel := context.WithTimeout(ctx, s.perFeedTimeout)
		album, err := s.parser.ParseAlbum(feedCtx, f.OriginalURL)
		cancel()

		if err != nil {
			s.log.Warn("feed parse failed", "feed", f.ID, "url", f.OriginalURL, "error", err)
			res.Errors = append(res.Errors, FeedError{FeedID: f.ID, URL: f.OriginalURL, Err: err.Error()})
			continue
		}
		if album == nil || (album.Title == "" && len(album.Tracks) == 0) {
			res.Errors = append(res.Errors, FeedError{FeedID: f.ID, URL: f.OriginalURL, Err: "feed parsed but returned no album data"})
			continue
		}

		album.FeedID = f.ID
		res.Albums = append(res.Albums, *album)
	}
}

// slowDelay returns the extra pause for hosts on the slow list.
func (s *Service) slowDelay(url string) time.Duration {
	if s.slowHostDelay <= 0 {
		return 0
	}
	lower := strings.ToLower(url)
	for _, host := range s.slowHosts {
		if host != "" && strings.Contains(lower, strings.ToLower(host)) {
			return s.slowHostDelay
		}
	}
	return 0
}
