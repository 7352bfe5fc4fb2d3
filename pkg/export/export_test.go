package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSurface() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, color.RGBA{255, 0, 0, 255})
	// (2,1) stays transparent, as a rotated corner would.
	return img
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, "JPG": JPEG, " jpeg ": JPEG} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("gif")
	require.Error(t, err)
}

func TestEncode_PNGKeepsAlpha(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testSurface(), PNG, 0))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	_, _, _, a := img.At(2, 1).RGBA()
	require.Equal(t, uint32(0), a)
}

func TestEncode_JPEGFlattensOntoWhite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, testSurface(), JPEG, 100))
	img, err := jpeg.Decode(&buf)
	require.NoError(t, err)
	r, g, b, _ := img.At(2, 1).RGBA()
	require.Greater(t, r>>8, uint32(240))
	require.Greater(t, g>>8, uint32(240))
	require.Greater(t, b>>8, uint32(240))
}

func TestEncode_UnknownFormat(t *testing.T) {
	require.Error(t, Encode(&bytes.Buffer{}, testSurface(), Format("tga"), 0))
}

func TestDataURL(t *testing.T) {
	u, err := DataURL(testSurface(), PNG, 0)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(u, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(u, "data:image/png;base64,"))
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
}

func TestFilename(t *testing.T) {
	require.Equal(t, "image.jpg", Filename("", JPEG))
	require.Equal(t, "holiday-photo-edited.png", Filename("holiday photo.jpeg", PNG))
	require.Equal(t, "scan-edited.jpg", Filename("/tmp/uploads/scan.tiff", JPEG))
}
