package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrViewNotFound indicates the referenced view is not in the registry
	ErrViewNotFound = errors.New("view not found")

	// ErrInvalidFilter indicates the query compiler rejected the filter tree
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrBadCursor indicates a page fetch carried a cursor the query engine
	// does not recognize for that page
	ErrBadCursor = errors.New("cursor does not match page")

	// ErrPlaylistNotFound indicates the requested playlist does not exist
	ErrPlaylistNotFound = errors.New("playlist not found")
)
