package editor

import "errors"

// ErrNoActiveSession is returned by every command except LoadImage until an
// image has been loaded. The controller's state is untouched when it is
// returned.
var ErrNoActiveSession = errors.New("no active editing session: load an image first")

// ErrUnknownCommand is returned by Dispatch for a CommandKind outside the
// declared set.
var ErrUnknownCommand = errors.New("unknown editor command")
