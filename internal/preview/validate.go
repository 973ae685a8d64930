package preview

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/nfnt/resize"
)

// maxRepairWidth caps re-encoded previews; terminal cells can't use
// more pixels than this anyway.
const maxRepairWidth = 3840

// ValidateImage checks by content inspection (never by extension) that
// the file at path is a well-formed image.
func ValidateImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("image has empty bounds %dx%d", cfg.Width, cfg.Height)
	}
	return nil
}

// RepairImage attempts to fix a file that failed validation by fully
// decoding it and re-encoding in place as JPEG. Oversized images are
// scaled down while we're at it. Returns an error if the data cannot
// be decoded at all.
func RepairImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	if img.Bounds().Dx() > maxRepairWidth {
		img = resize.Resize(maxRepairWidth, 0, img, resize.Lanczos3)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "repair*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := jpeg.Encode(tmp, img, &jpeg.Options{Quality: 90}); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to re-encode image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace image: %w", err)
	}
	return nil
}
