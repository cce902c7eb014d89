package registry

import (
	"fmt"
	"time"
)

// Type distinguishes album feeds from publisher manifests.
type Type string

const (
	TypeAlbum     Type = "album"
	TypePublisher Type = "publisher"
)

// Priority ranks how prominently a feed is surfaced.
type Priority string

const (
	PriorityCore     Priority = "core"
	PriorityExtended Priority = "extended"
	PriorityLow      Priority = "low"
)

// Status marks whether a feed participates in pipeline passes.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Feed provenance values.
const (
	SourceManual    = "manual"
	SourceRecursive = "recursive"
)

// Feed is one registry record. JSON field names are camelCase so the
// site consuming the registry document can read it directly.
type Feed struct {
	ID             string    `json:"id"`
	OriginalURL    string    `json:"originalUrl"`
	Type           Type      `json:"type"`
	Title          string    `json:"title"`
	Priority       Priority  `json:"priority"`
	Status         Status    `json:"status"`
	AddedAt        time.Time `json:"addedAt"`
	LastUpdated    time.Time `json:"lastUpdated"`
	Source         string    `json:"source"`
	DiscoveredFrom string    `json:"discoveredFrom,omitempty"`
}

// Document is the canonical on-disk shape of the registry file.
type Document struct {
	Feeds       []Feed    `json:"feeds"`
	LastUpdated time.Time `json:"lastUpdated"`
	Version     int       `json:"version"`
}

// ParseType validates a user-supplied feed type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeAlbum, TypePublisher:
		return Type(s), nil
	}
	return "", fmt.Errorf("invalid feed type %q (album or publisher)", s)
}

// ParsePriority validates a user-supplied priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityCore, PriorityExtended, PriorityLow:
		return Priority(s), nil
	}
	return "", fmt.Errorf("invalid priority %q (core, extended, or low)", s)
}

// ParseStatus validates a user-supplied status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusInactive:
		return Status(s), nil
	}
	return "", fmt.Errorf("invalid status %q (active or inactive)", s)
}
