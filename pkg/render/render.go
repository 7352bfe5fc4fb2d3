// Package render composites an editstate.State onto a raster surface.
//
// The pipeline runs in a fixed order: color matrix pass, blur, then the
// center/rotate/flip placement of the filtered source onto a transparent
// surface with the source's dimensions.
package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"thirdcoast.systems/retouch/pkg/editstate"
)

// ErrNoSource is returned when Render is called without an image.
var ErrNoSource = errors.New("render: no source image")

// Renderer produces the composited output for a source image and state.
type Renderer interface {
	Render(ctx context.Context, src image.Image, st editstate.State) (*image.RGBA, error)
}

// Compositor is the CPU Renderer.
type Compositor struct {
	// Workers bounds the goroutines used per pass. Zero means GOMAXPROCS.
	Workers int
}

// NewCompositor returns a Compositor using up to workers goroutines.
func NewCompositor(workers int) *Compositor {
	return &Compositor{Workers: workers}
}

func (c *Compositor) workers() int {
	if c == nil || c.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Workers
}

// Render implements Renderer.
func (c *Compositor) Render(ctx context.Context, src image.Image, st editstate.State) (*image.RGBA, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	b := src.Bounds()
	if b.Empty() {
		return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
	}

	filtered, err := c.filter(ctx, src, st)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return place(filtered, st), nil
}

// filter applies the color and blur passes, returning a fresh image anchored at
// the origin. src is never modified.
func (c *Compositor) filter(ctx context.Context, src image.Image, st editstate.State) (*image.NRGBA, error) {
	b := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Rect, src, b.Min, draw.Src)

	workers := c.workers()
	if m := ColorPass(st); !m.IsIdentity() {
		rowBytes := img.Rect.Dx() * 4
		err := forEachBand(ctx, img.Rect.Dy(), workers, func(_ context.Context, y0, y1 int) error {
			for y := y0; y < y1; y++ {
				off := y * img.Stride
				m.applyRow(img.Pix[off : off+rowBytes])
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("color pass: %w", err)
		}
	}

	if st.Blur > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("blur pass: %w", err)
		}
		img = imaging.Blur(img, st.Blur)
	}
	return img, nil
}
