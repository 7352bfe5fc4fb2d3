package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	"thirdcoast.systems/retouch/pkg/editstate"
)

// sinCos returns exact values for quarter turns so axis-aligned rotations
// map pixel centers onto pixel centers.
func sinCos(deg int) (sin, cos float64, exact bool) {
	switch editstate.NormalizeRotation(deg) {
	case 0:
		return 0, 1, true
	case 90:
		return 1, 0, true
	case 180:
		return 0, -1, true
	case 270:
		return -1, 0, true
	}
	rad := float64(deg) * math.Pi / 180
	return math.Sin(rad), math.Cos(rad), false
}

// Placement returns the source-to-surface transform for a w x h surface:
// translate to the center, rotate clockwise by deg, scale by (fx, fy), and
// draw the source centered.
func Placement(w, h int, deg int, fx, fy editstate.Flip) (m f64.Aff3, axisAligned bool) {
	sin, cos, exact := sinCos(deg)
	cx, cy := float64(w)/2, float64(h)/2
	sx, sy := float64(fx), float64(fy)

	a := cos * sx
	b := -sin * sy
	d := sin * sx
	e := cos * sy
	return f64.Aff3{
		a, b, cx - a*cx - b*cy,
		d, e, cy - d*cx - e*cy,
	}, exact
}

// place draws src onto a new transparent surface of the same size using the
// rotation and flips of st.
func place(src image.Image, st editstate.State) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, w, h))

	if st.Rotation == 0 && st.FlipHorizontal == editstate.FlipNone && st.FlipVertical == editstate.FlipNone {
		draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
		return dst
	}

	m, axisAligned := Placement(w, h, st.Rotation, st.FlipHorizontal, st.FlipVertical)
	// Aff3 maps source coordinates; shift so the source origin is its bounds minimum.
	m[2] -= m[0]*float64(b.Min.X) + m[1]*float64(b.Min.Y)
	m[5] -= m[3]*float64(b.Min.X) + m[4]*float64(b.Min.Y)

	var interp draw.Transformer = draw.BiLinear
	if axisAligned {
		interp = draw.NearestNeighbor
	}
	interp.Transform(dst, m, src, b, draw.Src, nil)
	return dst
}

// Thumbnail downsamples src so neither side exceeds maxDim, preserving aspect
// ratio. Images already small enough are returned unchanged.
func Thumbnail(src image.Image, maxDim int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxDim <= 0 || (w <= maxDim && h <= maxDim) {
		return src
	}
	scale := float64(maxDim) / float64(max(w, h))
	tw := max(1, int(math.Round(float64(w)*scale)))
	th := max(1, int(math.Round(float64(h)*scale)))

	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.ApproxBiLinear.Scale(dst, dst.Rect, src, b, draw.Src, nil)
	return dst
}
