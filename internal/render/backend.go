// Package render resolves a preview image into terminal output through
// an ordered fallback chain of rendering backends.
package render

import (
	"fmt"
	"io"
	"strings"

	"wallgrab/internal/domain"
)

// DefaultBackends returns the backend chain in priority order: the
// high-fidelity Kitty graphics backend first, the halfblock ANSI-art
// backend as the portable fallback.
func DefaultBackends(out io.Writer) []domain.Backend {
	return []domain.Backend{
		NewKittyBackend(out),
		NewHalfblockBackend(out),
	}
}

// moveTo positions the cursor at a 0-based cell coordinate
func moveTo(w io.Writer, x, y int) {
	fmt.Fprintf(w, "\x1b[%d;%dH", y+1, x+1)
}

// clearRegion blanks a terminal region so a new draw never composites
// with a previous attempt's partial output. Also deletes any Kitty
// graphics placements, which survive plain-text overwrites.
func clearRegion(w io.Writer, r domain.Region) {
	blank := strings.Repeat(" ", r.Width)
	for row := 0; row < r.Height; row++ {
		moveTo(w, r.X, r.Y+row)
		io.WriteString(w, blank)
	}
	// Kitty graphics delete-all
	io.WriteString(w, "\x1b_Gq=2,a=d,d=A\x1b\\")
	moveTo(w, r.X, r.Y)
}

// writeLines writes pre-rendered lines into the region, clipping to
// its height
func writeLines(w io.Writer, r domain.Region, content string) {
	lines := strings.Split(content, "\n")
	if len(lines) > r.Height {
		lines = lines[:r.Height]
	}
	for i, line := range lines {
		moveTo(w, r.X, r.Y+i)
		io.WriteString(w, line)
	}
}
