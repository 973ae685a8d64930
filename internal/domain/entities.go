package domain

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ImageRecord is one catalog entry as returned by the remote source.
// Immutable once fetched; identity is ID, SourceURL is the cache and
// download key.
type ImageRecord struct {
	ID         string // Source-specific unique identifier
	Resolution string // e.g. "1920x1080"
	SourceURL  string // Direct URL to the full-size image
}

// DisplayLine encodes the record as one selectable line. The trailing
// parenthesized URL is what the selection resolver extracts back out.
func (r ImageRecord) DisplayLine() string {
	return fmt.Sprintf("%s %s (%s)", r.ID, r.Resolution, r.SourceURL)
}

// CacheFilename derives the preview cache filename for a source URL:
// the URL path basename with any query parameters stripped.
func CacheFilename(sourceURL string) string {
	if u, err := url.Parse(sourceURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	// Fall back to raw string handling for non-URL input
	s := sourceURL
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	return path.Base(s)
}

// Page is one batch of catalog records plus total-page metadata.
// Fetched fresh on every pagination transition, never mutated.
type Page struct {
	Number   int // 1-based
	Records  []ImageRecord
	LastPage int
}

// CacheState tracks the lifecycle of a preview cache entry.
type CacheState int

const (
	CacheMissing CacheState = iota
	CacheDownloading
	CacheValid
	CacheCorrupt
)

// String returns the state name for logging.
func (s CacheState) String() string {
	switch s {
	case CacheMissing:
		return "missing"
	case CacheDownloading:
		return "downloading"
	case CacheValid:
		return "valid"
	case CacheCorrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

// CacheEntry describes one preview cache slot.
type CacheEntry struct {
	Filename string
	Path     string // On-disk location (empty while Missing)
	State    CacheState
}

// Pagination pseudo-lines offered alongside image records.
const (
	NextPageLine = "next page -->"
	PrevPageLine = "<-- previous page"
)

// IsPseudoLine reports whether a display line is a pagination
// pseudo-line rather than an image record.
func IsPseudoLine(line string) bool {
	return line == NextPageLine || line == PrevPageLine
}
