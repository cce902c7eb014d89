package slugs_test

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ChadFarrow/feedctl/internal/slugs"
)

var idCharset = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestDeriveID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/feed.xml", "https-example-com-feed-xml"},
		{"https://Example.COM/Feed.XML", "https-example-com-feed-xml"},
		{"https://wavlake.com/feed/music/abc-123", "https-wavlake-com-feed-music-abc-123"},
		{"ftp://x", "ftp-x"},
		{"///", ""},
	}
	for _, tt := range tests {
		got := slugs.DeriveID(tt.url)
		if got != tt.want {
			t.Errorf("DeriveID(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestDeriveID_Properties(t *testing.T) {
	urls := []string{
		"https://example.com/feed.xml?format=rss&v=2",
		"HTTP://MUSIC.EXAMPLE.ORG/~artist/album feed.rss",
		"https://example.com/" + strings.Repeat("segment/", 50),
	}
	for _, u := range urls {
		id := slugs.DeriveID(u)
		if id != slugs.DeriveID(u) {
			t.Errorf("DeriveID(%q) not deterministic", u)
		}
		if id == "" {
			t.Fatalf("DeriveID(%q) empty", u)
		}
		if !idCharset.MatchString(id) {
			t.Errorf("DeriveID(%q) = %q contains invalid characters", u, id)
		}
		if len(id) > 200 {
			t.Errorf("DeriveID(%q) length %d exceeds 200", u, len(id))
		}
		if strings.HasPrefix(id, "-") || strings.HasSuffix(id, "-") {
			t.Errorf("DeriveID(%q) = %q has edge hyphen", u, id)
		}
	}
}

func TestSimple(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Midnight Run", "midnight-run"},
		{"Midnight   Run!!", "midnight-run"},
		{"It's A Mood", "its-a-mood"},
		{"  Trailing  ", "trailing"},
		{"already-hyphenated title", "already-hyphenated-title"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := slugs.Simple(tt.title); got != tt.want {
			t.Errorf("Simple(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestBaseTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Midnight Run - Live Session", "Midnight Run"},
		{"Midnight Run – Deluxe", "Midnight Run"},
		{"No Separator Here", "No Separator Here"},
		{"Hyphen-ated but not split", "Hyphen-ated but not split"},
		{"A - B - C", "A"},
	}
	for _, tt := range tests {
		if got := slugs.BaseTitle(tt.title); got != tt.want {
			t.Errorf("BaseTitle(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestRich_Diacritics(t *testing.T) {
	table := slugs.NewTable(nil)
	if got := table.Rich("Beyoncé Sessions"); got != "beyonce-sessions" {
		t.Errorf("Rich diacritics = %q, want %q", got, "beyonce-sessions")
	}
}

func TestRich_OverrideWins(t *testing.T) {
	table := slugs.NewTable(map[string]string{
		"Stay Awhile": "stay-awhile-ep",
	})
	if got := table.Rich("stay awhile"); got != "stay-awhile-ep" {
		t.Errorf("override lookup = %q, want %q", got, "stay-awhile-ep")
	}
	if got := table.Rich("Other Album"); got != "other-album" {
		t.Errorf("non-override = %q, want %q", got, "other-album")
	}
}

func TestLoadTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yml")
	content := "\"Stay Awhile\": stay-awhile-ep\n\"Tinderbox\": tinderbox-deluxe\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	table, err := slugs.LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len = %d, want 2", table.Len())
	}
	if got := table.Rich("Tinderbox"); got != "tinderbox-deluxe" {
		t.Errorf("Rich = %q, want %q", got, "tinderbox-deluxe")
	}
}

func TestLoadTable_Missing(t *testing.T) {
	table, err := slugs.LoadTable(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("LoadTable missing file: %v", err)
	}
	if table.Len() != 0 {
		t.Errorf("expected empty table, got %d entries", table.Len())
	}
}
