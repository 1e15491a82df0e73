package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("no data yet")
	ErrInvalidLimit = errors.New("invalid trending limit")
)
