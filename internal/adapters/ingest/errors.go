package ingest

import "errors"

// Sentinel kinds for forward errors.
var (
	ErrForwardFailed = errors.New("forward failed")
)
