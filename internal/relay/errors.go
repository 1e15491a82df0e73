package relay

import "errors"

// Sentinel kinds for relay errors.
var (
	ErrRelayFailed = errors.New("relay failed")
)
