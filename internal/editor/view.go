package editor

import "thirdcoast.systems/retouch/pkg/editstate"

// Phase is the controller's drag state.
type Phase int

const (
	// Idle means the working state equals the history entry under the cursor,
	// or differs from it only by an uncommitted filter selection.
	Idle Phase = iota
	// Dragging means a continuous control has moved the working state away
	// from history and a commit is pending.
	Dragging
)

func (p Phase) String() string {
	if p == Dragging {
		return "dragging"
	}
	return "idle"
}

// HistoryItem is one row of the history list.
type HistoryItem struct {
	Index   int
	Label   string
	Current bool
}

// View is everything a presentation layer needs to redraw after a command.
type View struct {
	Loaded   bool
	Name     string
	Width    int
	Height   int
	History  []HistoryItem
	Cursor   int
	CanUndo  bool
	CanRedo  bool
	State    editstate.State
	Phase    Phase
	Revision uint64
}

// Labels returns the history labels in order.
func (v View) Labels() []string {
	out := make([]string, len(v.History))
	for i, h := range v.History {
		out[i] = h.Label
	}
	return out
}

// CurrentLabel returns the label under the cursor, or "" before a load.
func (v View) CurrentLabel() string {
	if v.Cursor < 0 || v.Cursor >= len(v.History) {
		return ""
	}
	return v.History[v.Cursor].Label
}
