// Package apperr holds the sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrInvalidURL      = errors.New("invalid url")
	ErrNotFound        = errors.New("not found")
	ErrMalformedImport = errors.New("malformed import")
	ErrConflict        = errors.New("conflict")
)
