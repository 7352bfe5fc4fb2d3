package ctxkeys

import "context"

type Key int

const (
	WorkspaceID Key = iota // string: the request's workspace id
)

// Workspace returns the workspace id stored on ctx, or "".
func Workspace(ctx context.Context) string {
	id, _ := ctx.Value(WorkspaceID).(string)
	return id
}
