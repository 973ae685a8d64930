package domain

import "context"

// CatalogSource provides paged access to the remote image catalog
type CatalogSource interface {
	// FetchPage returns one page of catalog records.
	// Page numbers are 1-based.
	FetchPage(ctx context.Context, page int) (*Page, error)
}

// Selector is the interactive multi-select capability. It presents the
// given lines, invokes preview synchronously whenever the highlight
// moves to a new line, and returns the chosen lines. A nil or empty
// result with a nil error means the user cancelled.
type Selector interface {
	Select(ctx context.Context, lines []string, preview func(line string)) ([]string, error)
}

// Region is a rectangular terminal area in cell coordinates.
type Region struct {
	X, Y          int // Top-left cell, 0-based
	Width, Height int
}

// Backend draws an image file into a terminal region.
type Backend interface {
	// Name identifies the backend in logs
	Name() string

	// Available reports whether the backend can run in this terminal
	Available() bool

	// Draw renders the image at path into the region.
	// The caller clears the region beforehand.
	Draw(path string, region Region) error
}

// Fetcher performs a blocking HTTP GET of url into dest, honoring
// context cancellation. Used by both the prefetch pool and the render
// pipeline so tests can substitute a fake transport.
type Fetcher interface {
	Fetch(ctx context.Context, url, dest string) error
}
