// Package filters describes the editor's slider controls and the Datastar
// expressions the sliders and filter buttons fire.
package filters

import (
	"fmt"
	"strconv"

	"thirdcoast.systems/retouch/pkg/editstate"
)

// RotationKey is the slider key of the continuous rotation control.
const RotationKey = "rotation"

// Slider describes one range input in the editor panel.
type Slider struct {
	Key      string
	Label    string
	Min      float64
	Max      float64
	Step     float64
	Default  float64
	Unit     string
	Decimals int
	Icon     string
}

// ForParameter returns the slider definition for p.
func ForParameter(p editstate.Parameter) Slider {
	lo, hi := p.Range()
	return Slider{
		Key:     p.String(),
		Label:   p.Title(),
		Min:     lo,
		Max:     hi,
		Step:    1,
		Default: p.Default(),
		Unit:    p.Unit(),
		Icon:    IconForParameter(p),
	}
}

// Catalog returns every parameter slider in display order.
func Catalog() []Slider {
	params := editstate.Parameters()
	out := make([]Slider, 0, len(params))
	for _, p := range params {
		out = append(out, ForParameter(p))
	}
	return out
}

// RotationSlider is the continuous rotation control. Values are degrees
// clockwise; the controller normalizes them into [0, 360).
func RotationSlider() Slider {
	return Slider{
		Key:   RotationKey,
		Label: "Rotation",
		Min:   0,
		Max:   359,
		Step:  1,
		Unit:  "deg",
		Icon:  "rotate",
	}
}

// IconForParameter returns the Font-Awesome icon name for a parameter.
func IconForParameter(p editstate.Parameter) string {
	switch p {
	case editstate.Brightness:
		return "sun"
	case editstate.Saturation:
		return "palette"
	case editstate.Inversion:
		return "circle-half-stroke"
	case editstate.Grayscale:
		return "droplet-slash"
	case editstate.Sepia:
		return "image"
	case editstate.Blur:
		return "droplet"
	default:
		return "sliders"
	}
}

// ---------------------------------------------------------------------------
// Template helpers
// ---------------------------------------------------------------------------

// FmtNum formats a float for use in HTML attributes (no trailing zeros).
func FmtNum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Readout formats v with the slider's unit, e.g. "140%" or "2.5px".
func (s Slider) Readout(v float64) string {
	return strconv.FormatFloat(v, 'f', s.Decimals, 64) + s.Unit
}

// ElementID is the DOM id of the slider's input element.
func (s Slider) ElementID() string {
	return "slider-" + s.Key
}

// Underscore signals are not sent by Datastar unless explicitly included.
const (
	paramSignals    = `{filterSignals:{include:/^(_parameter|_value)$/}}`
	rotationSignals = `{filterSignals:{include:/^_rotation$/}}`
)

// SelectExpr returns the expression for a filter button click. Selecting a
// filter only changes which slider is active.
func SelectExpr(p editstate.Parameter) string {
	return fmt.Sprintf(
		"$_parameter='%s'; @post('/api/editor/parameter/select',%s)",
		p, paramSignals,
	)
}

// DragExpr returns the expression for a parameter slider's input event.
// Each tick updates the preview without recording history.
func DragExpr(p editstate.Parameter) string {
	return fmt.Sprintf(
		"$_parameter='%s'; $_value=parseFloat(evt.target.value); @post('/api/editor/parameter/drag',%s)",
		p, paramSignals,
	)
}

// CommitExpr returns the expression for a parameter slider's change event,
// fired once when the user releases the slider.
func CommitExpr(p editstate.Parameter) string {
	return fmt.Sprintf(
		"$_parameter='%s'; $_value=parseFloat(evt.target.value); @post('/api/editor/parameter/commit',%s)",
		p, paramSignals,
	)
}

// RotationDragExpr returns the expression for the rotation slider's input event.
func RotationDragExpr() string {
	return "$_rotation=parseFloat(evt.target.value); @post('/api/editor/rotation/drag'," + rotationSignals + ")"
}

// RotationCommitExpr returns the expression for the rotation slider's change event.
func RotationCommitExpr() string {
	return "$_rotation=parseFloat(evt.target.value); @post('/api/editor/rotation/commit'," + rotationSignals + ")"
}

// PostExpr returns a bare @post to url, used by the toolbar buttons.
func PostExpr(url string) string {
	return fmt.Sprintf("@post('%s')", url)
}
