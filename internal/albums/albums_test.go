package albums_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ChadFarrow/feedctl/internal/albums"
	"github.com/ChadFarrow/feedctl/internal/registry"
	"github.com/ChadFarrow/feedctl/internal/rss"
)

type stubParser struct {
	mu     sync.Mutex
	calls  int
	albums map[string]*rss.Album
	errs   map[string]error
}

func (p *stubParser) ParseAlbum(ctx context.Context, url string) (*rss.Album, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if err, ok := p.errs[url]; ok {
		return nil, err
	}
	if a, ok := p.albums[url]; ok {
		out := *a
		return &out, nil
	}
	return nil, fmt.Errorf("no stub for %s", url)
}

func (p *stubParser) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type backendFunc func(ctx context.Context) ([]registry.Feed, error)

func (f backendFunc) ActiveAlbumFeeds(ctx context.Context) ([]registry.Feed, error) {
	return f(ctx)
}

func newAlbum(title string) rss.Album {
	return rss.Album{
		Title:  title,
		Artist: "Test Artist",
		Tracks: []rss.Track{
			{Title: title + ", Pt. 1", URL: "https://cdn.example.com/a.mp3", TrackNumber: 1},
		},
	}
}

func writeStatic(t *testing.T, path string, titles ...string) {
	t.Helper()
	list := []rss.Album{}
	for _, title := range titles {
		list = append(list, newAlbum(title))
	}
	snap := albums.NewSnapshot(&albums.FetchResult{Albums: list, Source: albums.SourceDynamic})
	if err := albums.WriteSnapshot(path, snap); err != nil {
		t.Fatal(err)
	}
}

func seedStore(t *testing.T, feeds ...registry.Feed) *registry.Store {
	t.Helper()
	s := registry.NewStore(filepath.Join(t.TempDir(), "feeds.json"))
	for _, f := range feeds {
		if _, err := s.Add(f); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestFetchAlbums_StaticSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums-static.json")
	writeStatic(t, path, "Neon Nights", "Harbor Lights")

	svc := albums.New(seedStore(t), &stubParser{}, albums.Options{StaticPath: path})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceStatic})

	if res.Source != albums.SourceStatic {
		t.Errorf("Source = %q", res.Source)
	}
	if len(res.Albums) != 2 {
		t.Fatalf("Albums = %d, want 2", len(res.Albums))
	}
	if res.Cached {
		t.Error("first read reported as cached")
	}
	if len(res.Errors) != 0 {
		t.Errorf("Errors = %v", res.Errors)
	}
	if res.GeneratedAt.IsZero() {
		t.Error("GeneratedAt not set from snapshot")
	}
}

func TestFetchAlbums_StaticMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	svc := albums.New(seedStore(t), &stubParser{}, albums.Options{StaticPath: path})

	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceStatic})
	if len(res.Albums) != 0 || len(res.Errors) != 0 {
		t.Errorf("missing snapshot should be empty and error-free, got %+v", res)
	}
}

func TestFetchAlbums_StaticCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	svc := albums.New(seedStore(t), &stubParser{}, albums.Options{StaticPath: path})

	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceStatic})
	if len(res.Albums) != 0 {
		t.Errorf("Albums = %d, want 0", len(res.Albums))
	}
	if len(res.Errors) != 1 || res.Errors[0].FeedID != "static" {
		t.Errorf("Errors = %v, want one keyed static", res.Errors)
	}
}

func TestFetchAlbums_StaticCachedReadsOwnFile(t *testing.T) {
	dir := t.TempDir()
	cached := filepath.Join(dir, "albums-static-cached.json")
	writeStatic(t, cached, "Neon Nights")

	svc := albums.New(seedStore(t), &stubParser{}, albums.Options{
		StaticPath: filepath.Join(dir, "absent.json"),
		CachedPath: cached,
	})

	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceStaticCached})
	if res.Source != albums.SourceStaticCached {
		t.Errorf("Source = %q", res.Source)
	}
	if len(res.Albums) != 1 {
		t.Errorf("Albums = %d, want 1", len(res.Albums))
	}
}

func TestFetchAlbums_DynamicPartialFailure(t *testing.T) {
	store := seedStore(t,
		registry.Feed{ID: "neon-nights", OriginalURL: "https://music.example.com/neon.xml"},
		registry.Feed{ID: "harbor-lights", OriginalURL: "https://music.example.com/harbor.xml"},
		registry.Feed{ID: "dead-feed", OriginalURL: "https://music.example.com/dead.xml"},
	)
	neon := newAlbum("Neon Nights")
	harbor := newAlbum("Harbor Lights")
	parser := &stubParser{
		albums: map[string]*rss.Album{
			"https://music.example.com/neon.xml":   &neon,
			"https://music.example.com/harbor.xml": &harbor,
		},
		errs: map[string]error{
			"https://music.example.com/dead.xml": errors.New("connection refused"),
		},
	}

	svc := albums.New(store, parser, albums.Options{})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceDynamic})

	if res.Source != albums.SourceDynamic {
		t.Errorf("Source = %q", res.Source)
	}
	if len(res.Albums) != 2 {
		t.Fatalf("Albums = %d, want 2", len(res.Albums))
	}
	for _, a := range res.Albums {
		switch a.Title {
		case "Neon Nights":
			if a.FeedID != "neon-nights" {
				t.Errorf("FeedID = %q, want registry id", a.FeedID)
			}
		case "Harbor Lights":
			if a.FeedID != "harbor-lights" {
				t.Errorf("FeedID = %q, want registry id", a.FeedID)
			}
		default:
			t.Errorf("unexpected album %q", a.Title)
		}
	}
	if len(res.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", res.Errors)
	}
	if res.Errors[0].FeedID != "dead-feed" || res.Errors[0].URL == "" {
		t.Errorf("error not keyed by feed: %+v", res.Errors[0])
	}
}

func TestFetchAlbums_DynamicEmptyAlbumIsError(t *testing.T) {
	store := seedStore(t, registry.Feed{ID: "hollow", OriginalURL: "https://music.example.com/hollow.xml"})
	parser := &stubParser{
		albums: map[string]*rss.Album{
			"https://music.example.com/hollow.xml": {},
		},
	}

	svc := albums.New(store, parser, albums.Options{})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceDynamic})

	if len(res.Albums) != 0 {
		t.Errorf("Albums = %d, want 0", len(res.Albums))
	}
	if len(res.Errors) != 1 || res.Errors[0].FeedID != "hollow" {
		t.Fatalf("Errors = %v", res.Errors)
	}
}

func TestFetchAlbums_CacheHitAndExpiry(t *testing.T) {
	store := seedStore(t, registry.Feed{ID: "neon-nights", OriginalURL: "https://music.example.com/neon.xml"})
	neon := newAlbum("Neon Nights")
	parser := &stubParser{albums: map[string]*rss.Album{"https://music.example.com/neon.xml": &neon}}

	svc := albums.New(store, parser, albums.Options{CacheTTL: 80 * time.Millisecond})

	first := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceDynamic})
	if first.Cached {
		t.Error("first fetch reported as cached")
	}
	if parser.callCount() != 1 {
		t.Fatalf("calls = %d, want 1", parser.callCount())
	}

	time.Sleep(15 * time.Millisecond)
	second := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceDynamic})
	if !second.Cached {
		t.Error("second fetch missed the cache")
	}
	if second.CacheAge <= 0 {
		t.Errorf("CacheAge = %d, want > 0", second.CacheAge)
	}
	if parser.callCount() != 1 {
		t.Errorf("calls = %d, cache hit should not re-parse", parser.callCount())
	}

	time.Sleep(100 * time.Millisecond)
	third := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceDynamic})
	if third.Cached {
		t.Error("entry served after TTL")
	}
	if parser.callCount() != 2 {
		t.Errorf("calls = %d, want 2 after expiry", parser.callCount())
	}
}

func TestFetchAlbums_ForceRegenerate(t *testing.T) {
	store := seedStore(t, registry.Feed{ID: "neon-nights", OriginalURL: "https://music.example.com/neon.xml"})
	neon := newAlbum("Neon Nights")
	parser := &stubParser{albums: map[string]*rss.Album{"https://music.example.com/neon.xml": &neon}}

	svc := albums.New(store, parser, albums.Options{})
	ctx := context.Background()

	svc.FetchAlbums(ctx, albums.FetchOptions{Source: albums.SourceDynamic})
	forced := svc.FetchAlbums(ctx, albums.FetchOptions{Source: albums.SourceDynamic, ForceRegenerate: true})
	if forced.Cached {
		t.Error("forced fetch served from cache")
	}
	if parser.callCount() != 2 {
		t.Errorf("calls = %d, want 2", parser.callCount())
	}

	// The forced result replaces the cached entry.
	again := svc.FetchAlbums(ctx, albums.FetchOptions{Source: albums.SourceDynamic})
	if !again.Cached {
		t.Error("fresh result was not cached")
	}
}

func TestClearCache(t *testing.T) {
	store := seedStore(t, registry.Feed{ID: "neon-nights", OriginalURL: "https://music.example.com/neon.xml"})
	neon := newAlbum("Neon Nights")
	parser := &stubParser{albums: map[string]*rss.Album{"https://music.example.com/neon.xml": &neon}}

	svc := albums.New(store, parser, albums.Options{})
	ctx := context.Background()

	svc.FetchAlbums(ctx, albums.FetchOptions{Source: albums.SourceDynamic})
	svc.ClearCache()
	res := svc.FetchAlbums(ctx, albums.FetchOptions{Source: albums.SourceDynamic})
	if res.Cached {
		t.Error("cache served after clear")
	}
	if parser.callCount() != 2 {
		t.Errorf("calls = %d, want 2", parser.callCount())
	}
}

func TestFetchAlbums_AutoPrefersStatic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums-static.json")
	writeStatic(t, path, "Neon Nights")

	store := seedStore(t, registry.Feed{ID: "neon-nights", OriginalURL: "https://music.example.com/neon.xml"})
	parser := &stubParser{}

	svc := albums.New(store, parser, albums.Options{StaticPath: path})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceAuto})

	if res.Source != albums.SourceStatic {
		t.Errorf("Source = %q, want static", res.Source)
	}
	if parser.callCount() != 0 {
		t.Errorf("auto hit the network despite a populated snapshot")
	}
}

func TestFetchAlbums_AutoFallsBackToDynamic(t *testing.T) {
	store := seedStore(t,
		registry.Feed{ID: "neon-nights", OriginalURL: "https://music.example.com/neon.xml"},
		registry.Feed{ID: "harbor-lights", OriginalURL: "https://music.example.com/harbor.xml"},
		registry.Feed{ID: "low-tide", OriginalURL: "https://music.example.com/tide.xml"},
		registry.Feed{ID: "dead-feed", OriginalURL: "https://music.example.com/dead.xml"},
	)
	neon := newAlbum("Neon Nights")
	harbor := newAlbum("Harbor Lights")
	tide := newAlbum("Low Tide")
	parser := &stubParser{
		albums: map[string]*rss.Album{
			"https://music.example.com/neon.xml":   &neon,
			"https://music.example.com/harbor.xml": &harbor,
			"https://music.example.com/tide.xml":   &tide,
		},
		errs: map[string]error{
			"https://music.example.com/dead.xml": errors.New("connection refused"),
		},
	}

	svc := albums.New(store, parser, albums.Options{StaticPath: filepath.Join(t.TempDir(), "absent.json")})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceAuto})

	if res.Source != albums.SourceDynamic {
		t.Errorf("Source = %q, want dynamic", res.Source)
	}
	// Partial data wins over the empty snapshot; the failure rides
	// along instead of failing the call.
	if len(res.Albums) != 3 {
		t.Errorf("Albums = %d, want 3", len(res.Albums))
	}
	if len(res.Errors) != 1 || res.Errors[0].FeedID != "dead-feed" {
		t.Errorf("Errors = %v, want the dead feed's entry", res.Errors)
	}
}

func TestFetchAlbums_AutoMergesErrorsWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("]["), 0644); err != nil {
		t.Fatal(err)
	}
	store := seedStore(t, registry.Feed{ID: "dead-feed", OriginalURL: "https://music.example.com/dead.xml"})
	parser := &stubParser{errs: map[string]error{
		"https://music.example.com/dead.xml": errors.New("timeout"),
	}}

	svc := albums.New(store, parser, albums.Options{StaticPath: path})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceAuto})

	if res.Source != albums.SourceDynamic {
		t.Errorf("Source = %q, want dynamic", res.Source)
	}
	if len(res.Errors) != 2 {
		t.Errorf("Errors = %v, want snapshot error plus feed error", res.Errors)
	}
}

func TestFetchAlbums_DatabaseWithoutBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums-static.json")
	writeStatic(t, path, "Neon Nights")

	svc := albums.New(seedStore(t), &stubParser{}, albums.Options{StaticPath: path})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceDatabase})

	if len(res.Albums) != 1 {
		t.Errorf("Albums = %d, want the static fallback", len(res.Albums))
	}
	found := false
	for _, e := range res.Errors {
		if e.FeedID == "database" {
			found = true
		}
	}
	if !found {
		t.Errorf("Errors = %v, want one keyed database", res.Errors)
	}
}

func TestFetchAlbums_DatabaseBackend(t *testing.T) {
	neon := newAlbum("Neon Nights")
	parser := &stubParser{albums: map[string]*rss.Album{"https://music.example.com/neon.xml": &neon}}
	db := backendFunc(func(ctx context.Context) ([]registry.Feed, error) {
		return []registry.Feed{{ID: "neon-nights", OriginalURL: "https://music.example.com/neon.xml"}}, nil
	})

	svc := albums.New(seedStore(t), parser, albums.Options{DB: db})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceDatabase})

	if res.Source != albums.SourceDatabase {
		t.Errorf("Source = %q", res.Source)
	}
	if len(res.Albums) != 1 || res.Albums[0].FeedID != "neon-nights" {
		t.Errorf("Albums = %+v", res.Albums)
	}
}

func TestFetchAlbums_DatabaseErrorFallsBackToStatic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums-static.json")
	writeStatic(t, path, "Neon Nights")
	db := backendFunc(func(ctx context.Context) ([]registry.Feed, error) {
		return nil, errors.New("database is locked")
	})

	svc := albums.New(seedStore(t), &stubParser{}, albums.Options{DB: db, StaticPath: path})
	res := svc.FetchAlbums(context.Background(), albums.FetchOptions{Source: albums.SourceDatabase})

	if len(res.Albums) != 1 {
		t.Errorf("Albums = %d, want the static fallback", len(res.Albums))
	}
	if len(res.Errors) != 1 || res.Errors[0].FeedID != "database" {
		t.Errorf("Errors = %v", res.Errors)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.json")
	res := &albums.FetchResult{
		Albums: []rss.Album{newAlbum("Neon Nights"), newAlbum("Harbor Lights")},
		Source: albums.SourceDynamic,
		Errors: []albums.FeedError{{FeedID: "dead-feed", Err: "timeout"}},
	}

	if err := albums.WriteSnapshot(path, albums.NewSnapshot(res)); err != nil {
		t.Fatal(err)
	}
	snap, err := albums.ReadSnapshot(path)
	if err != nil {
		t.Fatal(err)
	}
	if snap == nil {
		t.Fatal("snapshot came back nil")
	}
	if snap.Count != 2 || len(snap.Albums) != 2 {
		t.Errorf("Count = %d, Albums = %d", snap.Count, len(snap.Albums))
	}
	if !snap.Generated || snap.GeneratedAt.IsZero() {
		t.Error("generation metadata missing")
	}
	if snap.Source != albums.SourceDynamic {
		t.Errorf("Source = %q", snap.Source)
	}
	if len(snap.Errors) != 1 {
		t.Errorf("Errors = %v", snap.Errors)
	}
}

func TestStaticAlbums(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albums-static.json")
	writeStatic(t, path, "Neon Nights")

	svc := albums.New(seedStore(t), &stubParser{}, albums.Options{StaticPath: path})
	list := svc.StaticAlbums(context.Background())
	if len(list) != 1 || list[0].Title != "Neon Nights" {
		t.Errorf("StaticAlbums = %+v", list)
	}
}
