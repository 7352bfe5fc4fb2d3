package templates

import (
	"strconv"

	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/pkg/editstate"
	"thirdcoast.systems/retouch/pkg/filters"
	"thirdcoast.systems/retouch/pkg/utils/format"
)

// Element ids targeted by SSE patches.
const (
	IDFilterPanel     = "filter-panel"
	IDSliderReadout   = "slider-readout"
	IDRotationReadout = "rotation-readout"
	IDPreview         = "preview-pane"
	IDHistoryControls = "history-controls"
	IDHistoryList     = "history-list"
	IDStatus          = "status"
	IDHelp            = "help-panel"
)

// PreviewURL is the preview image address for a render revision. The
// revision busts the browser cache after every render.
func PreviewURL(rev uint64) string {
	return "/api/editor/preview.png?rev=" + strconv.FormatUint(rev, 10)
}

type filterButton struct {
	Key    string
	Icon   string
	Label  string
	Active bool
	Click  string
}

func filterButtons(active editstate.Parameter) []filterButton {
	sliders := filters.Catalog()
	out := make([]filterButton, 0, len(sliders))
	for _, s := range sliders {
		p, _ := editstate.ParseParameter(s.Key)
		out = append(out, filterButton{
			Key:    s.Key,
			Icon:   s.Icon,
			Label:  s.Label,
			Active: p == active,
			Click:  filters.SelectExpr(p),
		})
	}
	return out
}

type toolButton struct {
	ID    string
	Icon  string
	Title string
	Click string
}

var transformButtons = []toolButton{
	{"left", "rotate-left", "Rotate left", filters.PostExpr("/api/editor/rotate/left")},
	{"right", "rotate-right", "Rotate right", filters.PostExpr("/api/editor/rotate/right")},
	{"horizontal", "arrows-left-right", "Flip horizontal", filters.PostExpr("/api/editor/flip/horizontal")},
	{"vertical", "arrows-up-down", "Flip vertical", filters.PostExpr("/api/editor/flip/vertical")},
}

type historyButton struct {
	ID      string
	Label   string
	Click   string
	Enabled bool
}

func historyButtons(v editor.View) []historyButton {
	return []historyButton{
		{"undo", "Undo", filters.PostExpr("/api/editor/undo"), v.CanUndo},
		{"redo", "Redo", filters.PostExpr("/api/editor/redo"), v.CanRedo},
	}
}

func statusText(v editor.View) string {
	if !v.Loaded {
		return "No image loaded"
	}
	name := format.Truncate(format.PlainText(v.Name), 48)
	if name == "" {
		name = "image"
	}
	return name + " · " + format.Dimensions(v.Width, v.Height)
}

func previewAlt(v editor.View) string {
	return "Preview of " + format.PlainText(v.Name)
}

func historyItemID(i int) string {
	return "history-" + strconv.Itoa(i)
}

func historyJumpExpr(i int) string {
	return filters.PostExpr("/api/editor/history/" + strconv.Itoa(i))
}

func activeSlider(v editor.View) filters.Slider {
	return filters.ForParameter(v.State.Active)
}
