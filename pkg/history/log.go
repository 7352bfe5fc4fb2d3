// Package history implements a linear undo/redo log of editor states.
//
// The log is a sequence of entries plus a cursor marking the displayed entry.
// Pushing while the cursor is behind the newest entry discards every entry
// after the cursor; abandoned redo branches are not recoverable.
package history

import "thirdcoast.systems/retouch/pkg/editstate"

// Entry pairs a committed state with the label shown in the history list.
type Entry struct {
	State editstate.State `json:"state"`
	Label string          `json:"label"`
}

// Log is a linear edit history. The zero value is an empty log (cursor -1).
// A Log is not safe for concurrent use.
type Log struct {
	entries []Entry
	cursor  int
	init    bool
}

// New returns an empty log.
func New() *Log {
	return &Log{cursor: -1, init: true}
}

func (l *Log) lazyInit() {
	if !l.init {
		l.cursor = -1
		l.init = true
	}
}

// Push truncates the log to [0, cursor+1), appends the entry and moves the
// cursor onto it.
func (l *Log) Push(state editstate.State, label string) {
	l.lazyInit()
	// Clear dropped tail so the backing array doesn't pin old states.
	for i := l.cursor + 1; i < len(l.entries); i++ {
		l.entries[i] = Entry{}
	}
	l.entries = append(l.entries[:l.cursor+1], Entry{State: state, Label: label})
	l.cursor = len(l.entries) - 1
}

// Reset empties the log and seeds it with a single baseline entry.
func (l *Log) Reset(baseline editstate.State, label string) {
	l.lazyInit()
	clear(l.entries)
	l.entries = l.entries[:0]
	l.cursor = -1
	l.Push(baseline, label)
}

// CanUndo reports whether the cursor can move back.
func (l *Log) CanUndo() bool {
	l.lazyInit()
	return l.cursor > 0
}

// CanRedo reports whether the cursor can move forward.
func (l *Log) CanRedo() bool {
	l.lazyInit()
	return l.cursor < len(l.entries)-1
}

// Undo moves the cursor back one entry. ok is false, and nothing changes,
// when there is nothing to undo.
func (l *Log) Undo() (state editstate.State, ok bool) {
	if !l.CanUndo() {
		return editstate.State{}, false
	}
	l.cursor--
	return l.entries[l.cursor].State, true
}

// Redo moves the cursor forward one entry. ok is false, and nothing changes,
// when there is nothing to redo.
func (l *Log) Redo() (state editstate.State, ok bool) {
	if !l.CanRedo() {
		return editstate.State{}, false
	}
	l.cursor++
	return l.entries[l.cursor].State, true
}

// JumpTo moves the cursor to index. Out-of-range indexes are ignored.
func (l *Log) JumpTo(index int) (state editstate.State, ok bool) {
	l.lazyInit()
	if index < 0 || index >= len(l.entries) {
		return editstate.State{}, false
	}
	l.cursor = index
	return l.entries[l.cursor].State, true
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Cursor returns the index of the displayed entry, or -1 if the log is empty.
func (l *Log) Cursor() int {
	l.lazyInit()
	return l.cursor
}

// Current returns the entry under the cursor.
func (l *Log) Current() (Entry, bool) {
	l.lazyInit()
	if l.cursor < 0 {
		return Entry{}, false
	}
	return l.entries[l.cursor], true
}

// Entries returns a copy of every entry in order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Labels returns the label of every entry in order.
func (l *Log) Labels() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Label
	}
	return out
}
