package render

import (
	"gonum.org/v1/gonum/mat"
	"thirdcoast.systems/retouch/pkg/editstate"
)

// ColorMatrix is a 4x5 row-major color transform over 0..255 channel values:
//
//	[R']   [m0  m1  m2  m3  m4 ]   [R]
//	[G'] = [m5  m6  m7  m8  m9 ] * [G]
//	[B']   [m10 m11 m12 m13 m14]   [B]
//	[A']   [m15 m16 m17 m18 m19]   [A]
//	                               [1]
type ColorMatrix [20]float64

// IdentityMatrix leaves colors unchanged.
var IdentityMatrix = ColorMatrix{
	1, 0, 0, 0, 0,
	0, 1, 0, 0, 0,
	0, 0, 1, 0, 0,
	0, 0, 0, 1, 0,
}

// BrightnessMatrix scales RGB by amount (1 = unchanged).
func BrightnessMatrix(amount float64) ColorMatrix {
	return ColorMatrix{
		amount, 0, 0, 0, 0,
		0, amount, 0, 0, 0,
		0, 0, amount, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SaturationMatrix blends between luminance (0) and identity (1), beyond 1 oversaturates.
func SaturationMatrix(s float64) ColorMatrix {
	return ColorMatrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s, 0, 0,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// InvertMatrix mixes each channel with its complement; amount 1 fully inverts.
func InvertMatrix(amount float64) ColorMatrix {
	k := 1 - 2*amount
	off := 255 * amount
	return ColorMatrix{
		k, 0, 0, 0, off,
		0, k, 0, 0, off,
		0, 0, k, 0, off,
		0, 0, 0, 1, 0,
	}
}

// GrayscaleMatrix desaturates toward Rec. 709 luminance; amount 1 is fully gray.
func GrayscaleMatrix(amount float64) ColorMatrix {
	a := 1 - amount
	return ColorMatrix{
		0.2126 + 0.7874*a, 0.7152 - 0.7152*a, 0.0722 - 0.0722*a, 0, 0,
		0.2126 - 0.2126*a, 0.7152 + 0.2848*a, 0.0722 - 0.0722*a, 0, 0,
		0.2126 - 0.2126*a, 0.7152 - 0.7152*a, 0.0722 + 0.9278*a, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// SepiaMatrix tones toward sepia; amount 1 is full sepia.
func SepiaMatrix(amount float64) ColorMatrix {
	a := 1 - amount
	return ColorMatrix{
		0.393 + 0.607*a, 0.769 - 0.769*a, 0.189 - 0.189*a, 0, 0,
		0.349 - 0.349*a, 0.686 + 0.314*a, 0.168 - 0.168*a, 0, 0,
		0.272 - 0.272*a, 0.534 - 0.534*a, 0.131 + 0.869*a, 0, 0,
		0, 0, 0, 1, 0,
	}
}

// dense lifts m into a 5x5 homogeneous matrix so stages compose by multiplication.
func (m ColorMatrix) dense() *mat.Dense {
	d := mat.NewDense(5, 5, nil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			d.Set(r, c, m[r*5+c])
		}
	}
	d.Set(4, 4, 1)
	return d
}

func fromDense(d *mat.Dense) ColorMatrix {
	var m ColorMatrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			m[r*5+c] = d.At(r, c)
		}
	}
	return m
}

// Then returns the matrix that applies m first and next second.
func (m ColorMatrix) Then(next ColorMatrix) ColorMatrix {
	var out mat.Dense
	out.Mul(next.dense(), m.dense())
	return fromDense(&out)
}

// IsIdentity reports whether m leaves every color unchanged.
func (m ColorMatrix) IsIdentity() bool {
	const eps = 1e-9
	for i, v := range m {
		d := v - IdentityMatrix[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}

// ColorPass composes the color stages of st in render order: brightness,
// saturation, inversion, grayscale, sepia. Stages at their neutral value are
// skipped. Intermediate results are not clamped between stages.
func ColorPass(st editstate.State) ColorMatrix {
	m := IdentityMatrix
	if st.Brightness != editstate.Brightness.Default() {
		m = m.Then(BrightnessMatrix(st.Brightness / 100))
	}
	if st.Saturation != editstate.Saturation.Default() {
		m = m.Then(SaturationMatrix(st.Saturation / 100))
	}
	if st.Inversion != 0 {
		m = m.Then(InvertMatrix(st.Inversion / 100))
	}
	if st.Grayscale != 0 {
		m = m.Then(GrayscaleMatrix(st.Grayscale / 100))
	}
	if st.Sepia != 0 {
		m = m.Then(SepiaMatrix(st.Sepia / 100))
	}
	return m
}

// applyRow transforms a run of non-premultiplied RGBA pixels in place.
func (m *ColorMatrix) applyRow(pix []uint8) {
	for i := 0; i+3 < len(pix); i += 4 {
		r, g, b, a := float64(pix[i]), float64(pix[i+1]), float64(pix[i+2]), float64(pix[i+3])
		pix[i] = clamp8(m[0]*r + m[1]*g + m[2]*b + m[3]*a + m[4])
		pix[i+1] = clamp8(m[5]*r + m[6]*g + m[7]*b + m[8]*a + m[9])
		pix[i+2] = clamp8(m[10]*r + m[11]*g + m[12]*b + m[13]*a + m[14])
		pix[i+3] = clamp8(m[15]*r + m[16]*g + m[17]*b + m[18]*a + m[19])
	}
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
