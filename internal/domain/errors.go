package domain

import "errors"

// Sentinel errors for browse operations
var (
	// ErrSourceUnavailable indicates the catalog source could not be reached
	// or returned a remote error
	ErrSourceUnavailable = errors.New("catalog source is unavailable")

	// ErrEmptyResult indicates the very first page contained no records
	ErrEmptyResult = errors.New("query returned no results")

	// ErrCancelled indicates the user dismissed the selection widget
	ErrCancelled = errors.New("selection cancelled")

	// ErrNoValidSelection indicates no selected line resolved to a
	// download or pagination intent
	ErrNoValidSelection = errors.New("no valid selection")

	// ErrPreviewFetchFailed indicates a preview could not be fetched
	// within the timeout
	ErrPreviewFetchFailed = errors.New("preview fetch failed")

	// ErrInvalidImage indicates fetched data did not validate as an image
	// even after repair and re-fetch
	ErrInvalidImage = errors.New("file is not a valid image")

	// ErrNoRendererAvailable indicates every render backend failed or
	// none is installed
	ErrNoRendererAvailable = errors.New("no render backend available")
)
