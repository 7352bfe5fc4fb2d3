package editstate

import (
	"fmt"
	"strconv"
)

const (
	LabelOriginal = "Original Image"
	LabelReset    = "Reset Filters"
)

// FormatValue renders v without trailing zeros ("140", "2.5").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ValueLabel renders a parameter value with its unit: "140%" or "5px".
func ValueLabel(p Parameter, v float64) string {
	return FormatValue(v) + p.Unit()
}

// ParameterLabel is the history label for a committed slider change,
// e.g. "Brightness: 140%".
func ParameterLabel(p Parameter, v float64) string {
	return p.Title() + ": " + ValueLabel(p, v)
}

// RotationLabel renders an angle for the rotate readout: "90 deg".
func RotationLabel(deg int) string {
	return fmt.Sprintf("%d deg", deg)
}

// RotateLabel is the history label for a rotation commit: "Rotate 90deg".
func RotateLabel(deg int) string {
	return fmt.Sprintf("Rotate %ddeg", deg)
}

// FlipLabel is the history label for a flip commit: "Flip H" or "Flip V".
func FlipLabel(axis Axis) string {
	if axis == Vertical {
		return "Flip V"
	}
	return "Flip H"
}
