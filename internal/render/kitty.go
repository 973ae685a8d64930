package render

import (
	"fmt"
	"io"
	"os"

	"github.com/blacktop/go-termimg"

	"wallgrab/internal/domain"
)

// KittyBackend draws via the Kitty terminal graphics protocol.
type KittyBackend struct {
	out io.Writer
}

// NewKittyBackend creates the high-fidelity graphics backend
func NewKittyBackend(out io.Writer) *KittyBackend {
	return &KittyBackend{out: out}
}

// Name identifies the backend in logs
func (b *KittyBackend) Name() string { return "kitty" }

// Available reports whether the terminal speaks the Kitty graphics
// protocol. Detection is by environment; the draw itself will still
// fail cleanly on a lying terminal and the chain falls through.
func (b *KittyBackend) Available() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	return os.Getenv("TERM") == "xterm-kitty"
}

// Draw renders the image at path into the region
func (b *KittyBackend) Draw(path string, region domain.Region) error {
	img, err := termimg.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}

	data, err := img.Width(region.Width).Height(region.Height).Protocol(termimg.Kitty).Render()
	if err != nil {
		return fmt.Errorf("kitty render failed: %w", err)
	}

	moveTo(b.out, region.X, region.Y)
	if _, err := io.WriteString(b.out, data); err != nil {
		return fmt.Errorf("failed to write image data: %w", err)
	}
	return nil
}
