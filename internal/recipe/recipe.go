// Package recipe reads TOML edit recipes: ordered editor commands that can be
// replayed against a loaded image without a browser.
//
//	[[step]]
//	action = "set"
//	parameter = "brightness"
//	value = 140
//
//	[[step]]
//	action = "rotate"
//	direction = "right"
package recipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/pkg/editstate"
)

// Action names a recipe step.
type Action string

const (
	ActionSelect   Action = "select"
	ActionSet      Action = "set"
	ActionRotate   Action = "rotate"
	ActionRotateTo Action = "rotate_to"
	ActionFlip     Action = "flip"
	ActionReset    Action = "reset"
	ActionUndo     Action = "undo"
	ActionRedo     Action = "redo"
	ActionJump     Action = "jump"
)

// ErrInvalidStep is wrapped by every validation failure.
var ErrInvalidStep = errors.New("invalid recipe step")

// Step is one [[step]] table. Only the fields its Action needs are read.
type Step struct {
	Action    Action   `toml:"action"`
	Parameter string   `toml:"parameter,omitempty"`
	Value     *float64 `toml:"value,omitempty"`
	Direction string   `toml:"direction,omitempty"`
	Axis      string   `toml:"axis,omitempty"`
	Degrees   *int     `toml:"degrees,omitempty"`
	Index     *int     `toml:"index,omitempty"`
}

// Recipe is a parsed recipe document.
type Recipe struct {
	Name  string `toml:"name,omitempty"`
	Steps []Step `toml:"step"`
}

// Parse decodes a recipe from r. Unknown keys are rejected.
func Parse(r io.Reader) (*Recipe, error) {
	var rec Recipe
	md, err := toml.NewDecoder(r).Decode(&rec)
	if err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("parse recipe: unknown keys: %s", strings.Join(keys, ", "))
	}
	return &rec, nil
}

// Load reads and parses the recipe at path.
func Load(path string) (*Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open recipe: %w", err)
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Commands converts every step into controller commands. A "set" step becomes
// a drag followed by a commit so it records exactly one history entry.
func (r *Recipe) Commands() ([]editor.Command, error) {
	var out []editor.Command
	for i, s := range r.Steps {
		cmds, err := s.Commands()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		out = append(out, cmds...)
	}
	return out, nil
}

// Commands converts a single step.
func (s Step) Commands() ([]editor.Command, error) {
	switch s.Action {
	case ActionSelect:
		p, err := s.parameter()
		if err != nil {
			return nil, err
		}
		return []editor.Command{{Kind: editor.SelectParameter, Parameter: p}}, nil

	case ActionSet:
		p, err := s.parameter()
		if err != nil {
			return nil, err
		}
		if s.Value == nil {
			return nil, fmt.Errorf("%w: set %s needs a value", ErrInvalidStep, p)
		}
		return []editor.Command{
			{Kind: editor.DragParameter, Parameter: p, Value: *s.Value},
			{Kind: editor.CommitParameter, Parameter: p, Value: *s.Value},
		}, nil

	case ActionRotate:
		d, err := editstate.ParseDirection(s.Direction)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidStep, err)
		}
		return []editor.Command{{Kind: editor.Rotate, Direction: d}}, nil

	case ActionRotateTo:
		if s.Degrees == nil {
			return nil, fmt.Errorf("%w: rotate_to needs degrees", ErrInvalidStep)
		}
		return []editor.Command{
			{Kind: editor.DragRotation, Degrees: *s.Degrees},
			{Kind: editor.CommitRotation, Degrees: *s.Degrees},
		}, nil

	case ActionFlip:
		a, err := editstate.ParseAxis(s.Axis)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidStep, err)
		}
		return []editor.Command{{Kind: editor.Flip, Axis: a}}, nil

	case ActionReset:
		return []editor.Command{{Kind: editor.Reset}}, nil
	case ActionUndo:
		return []editor.Command{{Kind: editor.Undo}}, nil
	case ActionRedo:
		return []editor.Command{{Kind: editor.Redo}}, nil

	case ActionJump:
		if s.Index == nil {
			return nil, fmt.Errorf("%w: jump needs an index", ErrInvalidStep)
		}
		return []editor.Command{{Kind: editor.JumpTo, Index: *s.Index}}, nil

	case "":
		return nil, fmt.Errorf("%w: missing action", ErrInvalidStep)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidStep, s.Action)
	}
}

func (s Step) parameter() (editstate.Parameter, error) {
	p, err := editstate.ParseParameter(s.Parameter)
	if err != nil {
		return p, fmt.Errorf("%w: %w", ErrInvalidStep, err)
	}
	return p, nil
}

// Dispatcher is satisfied by *editor.Controller.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd editor.Command) error
}

// Replay validates the whole recipe, then dispatches its commands in order.
// It stops at the first failing command.
func (r *Recipe) Replay(ctx context.Context, d Dispatcher) error {
	cmds, err := r.Commands()
	if err != nil {
		return err
	}
	for i, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := d.Dispatch(ctx, cmd); err != nil {
			return fmt.Errorf("command %d (%s): %w", i+1, cmd.Kind, err)
		}
	}
	return nil
}
