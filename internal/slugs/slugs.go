// Package slugs derives URL-safe identifiers from feed URLs and album
// titles. Every rule here is deterministic: the same input always maps
// to the same identifier, so feeds keep their identity across runs.
package slugs

import "strings"

const maxIDLen = 200

// DeriveID converts a feed URL into a registry identifier: lowercase,
// every run of non-alphanumeric characters collapsed to a single
// hyphen, no leading or trailing hyphen, at most 200 characters.
func DeriveID(url string) string {
	url = strings.ToLower(url)

	var b strings.Builder
	b.Grow(len(url))
	hyphen := false
	for _, r := range url {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		case !hyphen && b.Len() > 0:
			b.WriteByte('-')
			hyphen = true
		}
	}

	id := strings.TrimRight(b.String(), "-")
	if len(id) > maxIDLen {
		id = strings.TrimRight(id[:maxIDLen], "-")
	}
	return id
}

// Simple slugifies a title the quick way: lowercase, punctuation
// stripped, whitespace runs become single hyphens.
func Simple(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '-':
			b.WriteByte('-')
		}
	}

	return strings.Trim(collapseHyphens(b.String()), "-")
}

// BaseTitle returns the portion of a title before the first " - " or
// " – " separator, so subtitle variants ("Album - Live Session") still
// match the plain album name. Titles without a separator pass through
// unchanged.
func BaseTitle(title string) string {
	for _, sep := range []string{" - ", " – "} {
		if i := strings.Index(title, sep); i >= 0 {
			return strings.TrimSpace(title[:i])
		}
	}
	return strings.TrimSpace(title)
}

func collapseHyphens(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}
