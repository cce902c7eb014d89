package registry

import "errors"

// Registry identity errors. Both Add conflicts are hard failures:
// records are never silently merged.
var (
	// ErrDuplicateFeed is returned when a URL is already registered.
	ErrDuplicateFeed = errors.New("feed already registered")
	// ErrIDConflict is returned when an ID is taken by a different URL.
	ErrIDConflict = errors.New("feed id already in use by a different URL")
	// ErrFeedNotFound is returned when no feed has the requested ID.
	ErrFeedNotFound = errors.New("feed not found")
)
