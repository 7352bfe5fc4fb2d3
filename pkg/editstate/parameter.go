package editstate

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrUnknownParameter is returned when a parameter name does not match any
// adjustable parameter.
var ErrUnknownParameter = errors.New("unknown parameter")

// Parameter identifies one of the slider-driven adjustments. The set is closed;
// switch statements over Parameter should cover every constant.
type Parameter int

const (
	Brightness Parameter = iota
	Saturation
	Inversion
	Grayscale
	Sepia
	Blur
)

// Parameters returns every adjustable parameter in display order.
func Parameters() []Parameter {
	return []Parameter{Brightness, Saturation, Inversion, Grayscale, Sepia, Blur}
}

var titleCaser = cases.Title(language.English)

func (p Parameter) String() string {
	switch p {
	case Brightness:
		return "brightness"
	case Saturation:
		return "saturation"
	case Inversion:
		return "inversion"
	case Grayscale:
		return "grayscale"
	case Sepia:
		return "sepia"
	case Blur:
		return "blur"
	default:
		return fmt.Sprintf("parameter(%d)", int(p))
	}
}

// Title returns the display name shown next to the slider ("Brightness").
func (p Parameter) Title() string {
	return titleCaser.String(p.String())
}

// Valid reports whether p is one of the declared parameters.
func (p Parameter) Valid() bool {
	return p >= Brightness && p <= Blur
}

// Range returns the inclusive bounds for the parameter's value.
func (p Parameter) Range() (lo, hi float64) {
	switch p {
	case Brightness, Saturation:
		return 0, 200
	case Inversion, Grayscale, Sepia:
		return 0, 100
	case Blur:
		return 0, 20
	default:
		return 0, 0
	}
}

// Default returns the value a freshly loaded image starts with.
func (p Parameter) Default() float64 {
	switch p {
	case Brightness, Saturation:
		return 100
	default:
		return 0
	}
}

// Unit is the suffix used when displaying a value: "%" or "px".
func (p Parameter) Unit() string {
	if p == Blur {
		return "px"
	}
	return "%"
}

// Clamp restricts v to the parameter's range.
func (p Parameter) Clamp(v float64) float64 {
	lo, hi := p.Range()
	if v != v { // NaN
		return p.Default()
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseParameter resolves a parameter from its lowercase name. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseParameter(s string) (Parameter, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, p := range Parameters() {
		if p.String() == name {
			return p, nil
		}
	}
	return Brightness, fmt.Errorf("%w: %q", ErrUnknownParameter, s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Parameter) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownParameter, int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Parameter) UnmarshalText(b []byte) error {
	parsed, err := ParseParameter(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
