package render

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/retouch/pkg/editstate"
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// quad returns a 2x2 image with distinct opaque corners:
//
//	red   green
//	blue  white
func quad() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 255, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func rgbaAt(img *image.RGBA, x, y int) color.RGBA {
	return img.RGBAAt(x, y)
}

func TestCompositor_IdentityPreservesPixels(t *testing.T) {
	src := quad()
	out, err := NewCompositor(2).Render(context.Background(), src, editstate.New())
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), out.Bounds())
	require.Equal(t, color.RGBA{255, 0, 0, 255}, rgbaAt(out, 0, 0))
	require.Equal(t, color.RGBA{255, 255, 255, 255}, rgbaAt(out, 1, 1))
}

func TestCompositor_SurfaceMatchesSourceSize(t *testing.T) {
	src := solid(37, 11, color.NRGBA{10, 20, 30, 255})
	st := editstate.New().Rotated(90).With(editstate.Blur, 3)
	out, err := NewCompositor(0).Render(context.Background(), src, st)
	require.NoError(t, err)
	require.Equal(t, 37, out.Bounds().Dx())
	require.Equal(t, 11, out.Bounds().Dy())
}

func TestCompositor_DoesNotModifySource(t *testing.T) {
	src := quad()
	before := append([]uint8(nil), src.Pix...)
	st := editstate.New().With(editstate.Inversion, 100).With(editstate.Blur, 2)
	_, err := NewCompositor(1).Render(context.Background(), src, st)
	require.NoError(t, err)
	require.Equal(t, before, src.Pix)
}

func TestCompositor_Transforms(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	green := color.RGBA{0, 255, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	white := color.RGBA{255, 255, 255, 255}

	tests := []struct {
		name  string
		state editstate.State
		want  [4]color.RGBA // (0,0) (1,0) (0,1) (1,1)
	}{
		{"flip horizontal", editstate.New().Flipped(editstate.Horizontal), [4]color.RGBA{green, red, white, blue}},
		{"flip vertical", editstate.New().Flipped(editstate.Vertical), [4]color.RGBA{blue, white, red, green}},
		{"rotate 180", editstate.New().WithRotation(180), [4]color.RGBA{white, blue, green, red}},
		{"rotate 90 clockwise", editstate.New().WithRotation(90), [4]color.RGBA{blue, red, white, green}},
		{"rotate 270", editstate.New().WithRotation(270), [4]color.RGBA{green, white, red, blue}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewCompositor(1).Render(context.Background(), quad(), tt.state)
			require.NoError(t, err)
			assert.Equal(t, tt.want[0], rgbaAt(out, 0, 0))
			assert.Equal(t, tt.want[1], rgbaAt(out, 1, 0))
			assert.Equal(t, tt.want[2], rgbaAt(out, 0, 1))
			assert.Equal(t, tt.want[3], rgbaAt(out, 1, 1))
		})
	}
}

func TestCompositor_ColorStages(t *testing.T) {
	src := solid(4, 4, color.NRGBA{100, 150, 200, 255})

	tests := []struct {
		name  string
		state editstate.State
		check func(t *testing.T, c color.RGBA)
	}{
		{"full inversion", editstate.New().With(editstate.Inversion, 100), func(t *testing.T, c color.RGBA) {
			require.Equal(t, color.RGBA{155, 105, 55, 255}, c)
		}},
		{"zero brightness", editstate.New().With(editstate.Brightness, 0), func(t *testing.T, c color.RGBA) {
			require.Equal(t, color.RGBA{0, 0, 0, 255}, c)
		}},
		{"double brightness clamps", editstate.New().With(editstate.Brightness, 200), func(t *testing.T, c color.RGBA) {
			require.Equal(t, color.RGBA{200, 255, 255, 255}, c)
		}},
		{"full grayscale", editstate.New().With(editstate.Grayscale, 100), func(t *testing.T, c color.RGBA) {
			require.Equal(t, c.R, c.G)
			require.Equal(t, c.G, c.B)
		}},
		{"zero saturation", editstate.New().With(editstate.Saturation, 0), func(t *testing.T, c color.RGBA) {
			require.InDelta(t, int(c.R), int(c.G), 1)
			require.InDelta(t, int(c.G), int(c.B), 1)
		}},
		{"full sepia warms", editstate.New().With(editstate.Sepia, 100), func(t *testing.T, c color.RGBA) {
			require.Greater(t, c.R, c.B)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewCompositor(2).Render(context.Background(), src, tt.state)
			require.NoError(t, err)
			tt.check(t, rgbaAt(out, 2, 2))
		})
	}
}

func TestCompositor_BlurSpreadsEdge(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 20, 1))
	for x := 0; x < 20; x++ {
		v := uint8(0)
		if x >= 10 {
			v = 255
		}
		src.SetNRGBA(x, 0, color.NRGBA{v, v, v, 255})
	}
	out, err := NewCompositor(1).Render(context.Background(), src, editstate.New().With(editstate.Blur, 3))
	require.NoError(t, err)
	left, right := rgbaAt(out, 9, 0), rgbaAt(out, 10, 0)
	require.Greater(t, left.R, uint8(0))
	require.Less(t, right.R, uint8(255))
	require.Equal(t, uint8(0), rgbaAt(out, 0, 0).R)
	require.Equal(t, uint8(255), rgbaAt(out, 19, 0).R)
}

func TestCompositor_Errors(t *testing.T) {
	_, err := NewCompositor(1).Render(context.Background(), nil, editstate.New())
	require.ErrorIs(t, err, ErrNoSource)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewCompositor(1).Render(ctx, solid(64, 64, color.NRGBA{1, 2, 3, 255}), editstate.New().With(editstate.Sepia, 50))
	require.ErrorIs(t, err, context.Canceled)
}

func TestColorMatrix_ThenComposes(t *testing.T) {
	m := BrightnessMatrix(0.5).Then(InvertMatrix(1))
	// 200 -> 100 -> 155
	require.InDelta(t, 155.0, m[0]*200+m[4], 1e-9)
	require.True(t, ColorPass(editstate.New()).IsIdentity())
	require.False(t, ColorPass(editstate.New().With(editstate.Sepia, 1)).IsIdentity())
}

func TestCompositor_BlurKeepsFlatRegions(t *testing.T) {
	src := solid(16, 12, color.NRGBA{90, 140, 30, 255})
	out, err := NewCompositor(2).Render(context.Background(), src, editstate.New().With(editstate.Blur, 4))
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 12), out.Bounds())
	for _, p := range []image.Point{{0, 0}, {8, 6}, {15, 11}} {
		c := rgbaAt(out, p.X, p.Y)
		require.InDelta(t, 90, int(c.R), 1)
		require.InDelta(t, 140, int(c.G), 1)
		require.InDelta(t, 30, int(c.B), 1)
	}
	require.Equal(t, color.NRGBA{90, 140, 30, 255}, src.NRGBAAt(0, 0), "source must not change")
}

func TestThumbnail(t *testing.T) {
	src := solid(400, 200, color.NRGBA{1, 2, 3, 255})
	th := Thumbnail(src, 100)
	require.Equal(t, image.Rect(0, 0, 100, 50), th.Bounds())

	small := solid(50, 20, color.NRGBA{1, 2, 3, 255})
	require.Same(t, small, Thumbnail(small, 100))
}
