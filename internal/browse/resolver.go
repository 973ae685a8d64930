// Package browse implements the interactive browse engine: the
// pagination state machine and the selection resolver.
package browse

import (
	"strings"

	"wallgrab/internal/domain"
)

// IntentKind classifies a raw selection line
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentNextPage
	IntentPrevPage
	IntentDownload
)

// Intent is the resolved meaning of one selected line
type Intent struct {
	Kind IntentKind
	URL  string // Set for IntentDownload
	Raw  string // Original line, kept for logging unrecognized input
}

// Resolve classifies a raw selection line. Pagination markers are
// matched literally and first: a record's resolution column could
// otherwise look deceptively similar to a pseudo-line. Image lines
// carry their download URL as the trailing parenthesized token.
func Resolve(line string) Intent {
	switch line {
	case domain.NextPageLine:
		return Intent{Kind: IntentNextPage, Raw: line}
	case domain.PrevPageLine:
		return Intent{Kind: IntentPrevPage, Raw: line}
	}
	if url := ExtractURL(line); url != "" {
		return Intent{Kind: IntentDownload, URL: url, Raw: line}
	}
	return Intent{Kind: IntentNone, Raw: line}
}

// ExtractURL pulls the trailing parenthesized URL out of a display
// line, or returns "" if the line is not in record form.
func ExtractURL(line string) string {
	if !strings.HasSuffix(line, ")") {
		return ""
	}
	open := strings.LastIndexByte(line, '(')
	if open < 0 {
		return ""
	}
	url := line[open+1 : len(line)-1]
	if url == "" {
		return ""
	}
	return url
}
