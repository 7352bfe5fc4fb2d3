// Package imagesrc turns user-supplied bytes into a decoded source image.
package imagesrc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxBytes bounds uploads when no explicit limit is configured.
	DefaultMaxBytes = 32 << 20
	// DefaultMaxPixels bounds decoded width*height (about 8000x6000).
	DefaultMaxPixels = 48_000_000
)

var (
	ErrEmpty           = errors.New("empty image")
	ErrTooLarge        = errors.New("image exceeds size limit")
	ErrTooManyPixels   = errors.New("image dimensions exceed pixel limit")
	ErrUnsupportedType = errors.New("unsupported image type")
)

// Limits caps what Decode accepts. Zero fields take the package defaults.
type Limits struct {
	MaxBytes  int64
	MaxPixels int64
}

func (l Limits) withDefaults() Limits {
	if l.MaxBytes <= 0 {
		l.MaxBytes = DefaultMaxBytes
	}
	if l.MaxPixels <= 0 {
		l.MaxPixels = DefaultMaxPixels
	}
	return l
}

// SupportedTypes lists the MIME types Decode accepts.
var SupportedTypes = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/bmp",
	"image/tiff",
	"image/webp",
}

// Source is a decoded image ready for editing. Width and Height are the
// natural pixel dimensions the render surface must match.
type Source struct {
	Name   string
	MIME   string
	Size   int64
	Image  image.Image
	Width  int
	Height int
}

// Decode reads at most lim.MaxBytes from r, checks the content type and the
// header's dimensions against lim.MaxPixels, then decodes the image.
func Decode(r io.Reader, name string, lim Limits) (*Source, error) {
	lim = lim.withDefaults()
	maxBytes := lim.MaxBytes
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}

	mt := mimetype.Detect(data)
	if !supported(mt) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mt.String())
	}

	// The header is enough to refuse small files that expand to huge rasters.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mt.String(), err)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > lim.MaxPixels {
		return nil, fmt.Errorf("%w (%dx%d, limit %d pixels)", ErrTooManyPixels, cfg.Width, cfg.Height, lim.MaxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", mt.String(), err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode %s: %w", format, ErrEmpty)
	}

	return &Source{
		Name:   name,
		MIME:   mt.String(),
		Size:   int64(len(data)),
		Image:  img,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

func supported(mt *mimetype.MIME) bool {
	for _, t := range SupportedTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}
