package imagesrc

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func encodeTestImage(t *testing.T, enc func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	img.SetNRGBA(1, 1, color.NRGBA{200, 100, 50, 255})
	var buf bytes.Buffer
	require.NoError(t, enc(&buf, img))
	return buf.Bytes()
}

func TestDecode_SupportedFormats(t *testing.T) {
	tests := []struct {
		name string
		mime string
		enc  func(*bytes.Buffer, image.Image) error
	}{
		{"png", "image/png", func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) }},
		{"jpeg", "image/jpeg", func(b *bytes.Buffer, i image.Image) error { return jpeg.Encode(b, i, nil) }},
		{"bmp", "image/bmp", func(b *bytes.Buffer, i image.Image) error { return bmp.Encode(b, i) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := encodeTestImage(t, tt.enc)
			src, err := Decode(bytes.NewReader(data), "photo."+tt.name, Limits{})
			require.NoError(t, err)
			require.Equal(t, tt.mime, src.MIME)
			require.Equal(t, 6, src.Width)
			require.Equal(t, 4, src.Height)
			require.Equal(t, int64(len(data)), src.Size)
			require.Equal(t, "photo."+tt.name, src.Name)
		})
	}
}

func TestDecode_Rejects(t *testing.T) {
	_, err := Decode(bytes.NewReader(nil), "empty.png", Limits{})
	require.ErrorIs(t, err, ErrEmpty)

	_, err = Decode(strings.NewReader("just some text, not pixels"), "notes.txt", Limits{})
	require.ErrorIs(t, err, ErrUnsupportedType)

	data := encodeTestImage(t, func(b *bytes.Buffer, i image.Image) error { return png.Encode(b, i) })
	_, err = Decode(bytes.NewReader(data), "big.png", Limits{MaxBytes: int64(len(data) - 1)})
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestDecode_RejectsOversizedDimensions(t *testing.T) {
	// A blank raster compresses to a few hundred bytes whatever its size.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 400, 300))))
	data := buf.Bytes()
	require.Less(t, len(data), 4096)

	_, err := Decode(bytes.NewReader(data), "flat.png", Limits{MaxPixels: 400*300 - 1})
	require.ErrorIs(t, err, ErrTooManyPixels)

	src, err := Decode(bytes.NewReader(data), "flat.png", Limits{MaxPixels: 400 * 300})
	require.NoError(t, err)
	require.Equal(t, 400, src.Width)
	require.Equal(t, 300, src.Height)
}
