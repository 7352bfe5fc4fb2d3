package editor

import (
	"context"
	"fmt"

	"thirdcoast.systems/retouch/pkg/editstate"
	"thirdcoast.systems/retouch/pkg/imagesrc"
)

// CommandKind enumerates the user intents the controller understands.
type CommandKind int

const (
	LoadImage CommandKind = iota
	SelectParameter
	DragParameter
	CommitParameter
	DragRotation
	CommitRotation
	Rotate
	Flip
	Reset
	Undo
	Redo
	JumpTo
)

var commandNames = [...]string{
	LoadImage:       "load_image",
	SelectParameter: "select_parameter",
	DragParameter:   "drag_parameter",
	CommitParameter: "commit_parameter",
	DragRotation:    "drag_rotation",
	CommitRotation:  "commit_rotation",
	Rotate:          "rotate",
	Flip:            "flip",
	Reset:           "reset",
	Undo:            "undo",
	Redo:            "redo",
	JumpTo:          "jump_to",
}

func (k CommandKind) String() string {
	if k < 0 || int(k) >= len(commandNames) {
		return fmt.Sprintf("command(%d)", int(k))
	}
	return commandNames[k]
}

// Command is one user intent. Only the fields relevant to Kind are read:
//
//	LoadImage                      Source
//	SelectParameter                Parameter
//	DragParameter, CommitParameter Parameter, Value
//	DragRotation, CommitRotation   Degrees
//	Rotate                         Direction
//	Flip                           Axis
//	JumpTo                         Index
type Command struct {
	Kind      CommandKind
	Source    *imagesrc.Source
	Parameter editstate.Parameter
	Value     float64
	Degrees   int
	Direction editstate.Direction
	Axis      editstate.Axis
	Index     int
}

// Dispatch routes cmd to the matching controller method.
func (c *Controller) Dispatch(ctx context.Context, cmd Command) error {
	switch cmd.Kind {
	case LoadImage:
		return c.LoadImage(ctx, cmd.Source)
	case SelectParameter:
		return c.SelectParameter(ctx, cmd.Parameter)
	case DragParameter:
		return c.DragParameter(ctx, cmd.Parameter, cmd.Value)
	case CommitParameter:
		return c.CommitParameter(ctx, cmd.Parameter, cmd.Value)
	case DragRotation:
		return c.DragRotation(ctx, cmd.Degrees)
	case CommitRotation:
		return c.CommitRotation(ctx, cmd.Degrees)
	case Rotate:
		return c.Rotate(ctx, cmd.Direction)
	case Flip:
		return c.Flip(ctx, cmd.Axis)
	case Reset:
		return c.Reset(ctx)
	case Undo:
		return c.Undo(ctx)
	case Redo:
		return c.Redo(ctx)
	case JumpTo:
		return c.JumpTo(ctx, cmd.Index)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
	}
}
