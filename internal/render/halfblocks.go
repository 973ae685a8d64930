package render

import (
	"fmt"
	"io"

	"github.com/blacktop/go-termimg"

	"wallgrab/internal/domain"
)

// HalfblockBackend draws ANSI-art previews using unicode half blocks.
// Works in any 256-color terminal, so it sits last in the chain.
type HalfblockBackend struct {
	out io.Writer
}

// NewHalfblockBackend creates the portable fallback backend
func NewHalfblockBackend(out io.Writer) *HalfblockBackend {
	return &HalfblockBackend{out: out}
}

// Name identifies the backend in logs
func (b *HalfblockBackend) Name() string { return "halfblocks" }

// Available always reports true
func (b *HalfblockBackend) Available() bool { return true }

// Draw renders the image at path into the region
func (b *HalfblockBackend) Draw(path string, region domain.Region) error {
	img, err := termimg.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	data, err := img.Width(region.Width).Height(region.Height).Protocol(termimg.Halfblocks).Render()
	if err != nil {
		return fmt.Errorf("halfblock render failed: %w", err)
	}

	writeLines(b.out, region, data)
	return nil
}
