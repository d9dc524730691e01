// Package apperr holds sentinel errors shared across sources.
package apperr

import "errors"

var (
	ErrRemoteStatus      = errors.New("unexpected remote status")
	ErrMalformedResponse = errors.New("malformed response")
	ErrSyncFailed        = errors.New("one or more sources failed")
)
