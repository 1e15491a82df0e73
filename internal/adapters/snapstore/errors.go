package snapstore

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrFetchFailed = errors.New("fetch failed")
)
