package common

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/retouch/cmd/web/internal/workspace"
)

// WorkspaceContextKey is the echo context key holding the request's *workspace.Workspace.
const WorkspaceContextKey = "workspace"

// RequireWorkspace returns the workspace resolved by the session middleware.
func RequireWorkspace(c echo.Context) (*workspace.Workspace, error) {
	ws, ok := c.Get(WorkspaceContextKey).(*workspace.Workspace)
	if !ok || ws == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "no workspace")
	}
	return ws, nil
}

// RequireIntParam extracts an integer route parameter or returns a 400 error.
func RequireIntParam(c echo.Context, param string) (int, error) {
	n, err := strconv.Atoi(c.Param(param))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
	}
	return n, nil
}
