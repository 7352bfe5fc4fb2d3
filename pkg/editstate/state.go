// Package editstate holds the immutable snapshot of every adjustable image
// parameter. A State fully describes how to render the current image; two
// States render identically iff they compare equal with ==.
package editstate

import (
	"errors"
	"fmt"
)

// Flip is a scale factor applied along one axis: 1 keeps orientation, -1 mirrors.
type Flip int

const (
	FlipNone   Flip = 1
	FlipMirror Flip = -1
)

// Toggle returns the opposite orientation.
func (f Flip) Toggle() Flip {
	if f == FlipMirror {
		return FlipNone
	}
	return FlipMirror
}

// Valid reports whether f is 1 or -1.
func (f Flip) Valid() bool {
	return f == FlipNone || f == FlipMirror
}

// Axis selects which flip a Flip command toggles.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ParseAxis accepts "horizontal"/"h" and "vertical"/"v".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "horizontal", "h", "H":
		return Horizontal, nil
	case "vertical", "v", "V":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown flip axis %q", s)
}

// Direction is a quarter-turn rotation button.
type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	if d == Right {
		return "right"
	}
	return "left"
}

// Degrees returns the signed rotation delta: -90 for Left, +90 for Right.
func (d Direction) Degrees() int {
	if d == Right {
		return 90
	}
	return -90
}

// ParseDirection accepts "left" and "right".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Left, fmt.Errorf("unknown rotate direction %q", s)
}

// State is one complete description of how to render the current image.
// Methods never mutate the receiver; every change yields a new State.
type State struct {
	Brightness float64 `json:"brightness" toml:"brightness"`
	Saturation float64 `json:"saturation" toml:"saturation"`
	Inversion  float64 `json:"inversion" toml:"inversion"`
	Grayscale  float64 `json:"grayscale" toml:"grayscale"`
	Sepia      float64 `json:"sepia" toml:"sepia"`
	Blur       float64 `json:"blur" toml:"blur"`

	// Rotation in degrees, clockwise positive, normalized into [0, 360).
	Rotation       int  `json:"rotation" toml:"rotation"`
	FlipHorizontal Flip `json:"flip_horizontal" toml:"flip_horizontal"`
	FlipVertical   Flip `json:"flip_vertical" toml:"flip_vertical"`

	// Active is the parameter the slider targets. It has no effect on rendering.
	Active Parameter `json:"active" toml:"active"`
}

// New returns a State with every field at its documented default.
func New() State {
	return State{
		Brightness:     Brightness.Default(),
		Saturation:     Saturation.Default(),
		Inversion:      Inversion.Default(),
		Grayscale:      Grayscale.Default(),
		Sepia:          Sepia.Default(),
		Blur:           Blur.Default(),
		Rotation:       0,
		FlipHorizontal: FlipNone,
		FlipVertical:   FlipNone,
		Active:         Brightness,
	}
}

// Value returns the current value of p.
func (s State) Value(p Parameter) float64 {
	switch p {
	case Brightness:
		return s.Brightness
	case Saturation:
		return s.Saturation
	case Inversion:
		return s.Inversion
	case Grayscale:
		return s.Grayscale
	case Sepia:
		return s.Sepia
	case Blur:
		return s.Blur
	default:
		return 0
	}
}

// With returns a copy of s with p set to v clamped into p's range.
func (s State) With(p Parameter, v float64) State {
	v = p.Clamp(v)
	switch p {
	case Brightness:
		s.Brightness = v
	case Saturation:
		s.Saturation = v
	case Inversion:
		s.Inversion = v
	case Grayscale:
		s.Grayscale = v
	case Sepia:
		s.Sepia = v
	case Blur:
		s.Blur = v
	}
	return s
}

// WithActive returns a copy of s targeting p with the slider.
func (s State) WithActive(p Parameter) State {
	if p.Valid() {
		s.Active = p
	}
	return s
}

// WithRotation returns a copy of s rotated to an absolute angle.
func (s State) WithRotation(deg int) State {
	s.Rotation = NormalizeRotation(deg)
	return s
}

// Rotated returns a copy of s rotated by delta degrees.
func (s State) Rotated(delta int) State {
	return s.WithRotation(s.Rotation + delta)
}

// Flipped returns a copy of s with the given axis toggled.
func (s State) Flipped(axis Axis) State {
	switch axis {
	case Horizontal:
		s.FlipHorizontal = s.FlipHorizontal.Toggle()
	case Vertical:
		s.FlipVertical = s.FlipVertical.Toggle()
	}
	return s
}

// Clamped returns a copy of s with every field forced into range.
func (s State) Clamped() State {
	for _, p := range Parameters() {
		s = s.With(p, s.Value(p))
	}
	s.Rotation = NormalizeRotation(s.Rotation)
	if !s.FlipHorizontal.Valid() {
		s.FlipHorizontal = FlipNone
	}
	if !s.FlipVertical.Valid() {
		s.FlipVertical = FlipNone
	}
	if !s.Active.Valid() {
		s.Active = Brightness
	}
	return s
}

// Validate reports every field that is outside its declared range.
func (s State) Validate() error {
	var errs []error
	for _, p := range Parameters() {
		lo, hi := p.Range()
		if v := s.Value(p); v < lo || v > hi || v != v {
			errs = append(errs, fmt.Errorf("%s %v outside [%v, %v]", p, v, lo, hi))
		}
	}
	if s.Rotation < 0 || s.Rotation >= 360 {
		errs = append(errs, fmt.Errorf("rotation %d outside [0, 360)", s.Rotation))
	}
	if !s.FlipHorizontal.Valid() {
		errs = append(errs, fmt.Errorf("flip_horizontal %d not 1 or -1", s.FlipHorizontal))
	}
	if !s.FlipVertical.Valid() {
		errs = append(errs, fmt.Errorf("flip_vertical %d not 1 or -1", s.FlipVertical))
	}
	if !s.Active.Valid() {
		errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownParameter, int(s.Active)))
	}
	return errors.Join(errs...)
}

// IsIdentity reports whether rendering s would reproduce the source unchanged.
// The active parameter is ignored.
func (s State) IsIdentity() bool {
	d := New()
	d.Active = s.Active
	return s == d
}

// NormalizeRotation maps any angle into [0, 360).
func NormalizeRotation(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}
