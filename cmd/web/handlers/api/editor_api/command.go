// Package editor_api serves the editor's command, stream and download
// endpoints. Command endpoints reply 204; the UI is updated through the
// workspace's SSE stream.
package editor_api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/internal/editor"
)

// runCommand resolves the request's workspace and applies fn to its
// controller.
func runCommand(c echo.Context, fn func(ctx context.Context, ctrl *editor.Controller) error) error {
	ws, err := common.RequireWorkspace(c)
	if err != nil {
		return err
	}
	if err := fn(c.Request().Context(), ws.Editor); err != nil {
		return common.EditorError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleReset returns a handler that resets every filter and commits.
func HandleReset() echo.HandlerFunc {
	return func(c echo.Context) error {
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.Reset(ctx)
		})
	}
}

// HandleUndo returns a handler that steps history back.
func HandleUndo() echo.HandlerFunc {
	return func(c echo.Context) error {
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.Undo(ctx)
		})
	}
}

// HandleRedo returns a handler that steps history forward.
func HandleRedo() echo.HandlerFunc {
	return func(c echo.Context) error {
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.Redo(ctx)
		})
	}
}

// HandleJump returns a handler that moves the history cursor to :index.
// Indices outside the log are ignored by the controller.
func HandleJump() echo.HandlerFunc {
	return func(c echo.Context) error {
		i, err := common.RequireIntParam(c, "index")
		if err != nil {
			return err
		}
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.JumpTo(ctx, i)
		})
	}
}
