// Package export serializes a rendered surface into a downloadable encoding.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"thirdcoast.systems/retouch/pkg/utils/filename"
)

// Format is an export encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// DefaultQuality is the JPEG quality used when none is configured.
const DefaultQuality = 92

// ParseFormat accepts "png", "jpeg" and "jpg" case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// Encode writes img to w. JPEG output is flattened onto white because the
// encoding has no alpha channel; quality <= 0 selects DefaultQuality.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestSpeed}
		if err := enc.Encode(w, img); err != nil {
			return fmt.Errorf("encode png: %w", err)
		}
		return nil
	case JPEG:
		if quality <= 0 || quality > 100 {
			quality = DefaultQuality
		}
		if err := jpeg.Encode(w, flatten(img), &jpeg.Options{Quality: quality}); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// DataURL encodes img as a data: URL.
func DataURL(img image.Image, f Format, quality int) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality); err != nil {
		return "", err
	}
	return "data:" + f.ContentType() + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Filename builds the download name for an export of sourceName. Without a
// usable source name it falls back to "image" plus the format's extension.
func Filename(sourceName string, f Format) string {
	base := strings.TrimSuffix(filepath.Base(sourceName), filepath.Ext(sourceName))
	if base = filename.Sanitize(base, 100); base != "" {
		base += "-edited"
	}
	return filename.WithExtension(base, "image", f.Ext())
}

func flatten(img image.Image) image.Image {
	b := img.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, b, img, b.Min, draw.Over)
	return out
}
