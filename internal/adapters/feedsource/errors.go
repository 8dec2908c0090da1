package feedsource

import "errors"

// ErrNoFeeds is returned when a directory holds no feed files.
var ErrNoFeeds = errors.New("no feed files found")
