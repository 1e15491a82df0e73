package model

import "errors"

// Sentinel kinds for record errors.
var (
	ErrValidation = errors.New("invalid record")
)
