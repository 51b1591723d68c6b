package reprise

import "errors"

// Sentinel errors for the reprise package.
// Use errors.Is to check: errors.Is(err, reprise.ErrInvalidQuality)
var (
	ErrInvalidQuality    = errors.New("reprise: invalid quality rating")
	ErrInvalidResponse   = errors.New("reprise: invalid response event")
	ErrAlgorithmMismatch = errors.New("reprise: response kind does not match state algorithm")
	ErrUnknownAlgorithm  = errors.New("reprise: unknown algorithm variant")
	ErrInvalidSchedule   = errors.New("reprise: invalid box schedule")
	ErrStateNotFound     = errors.New("reprise: scheduling state not found")
)
