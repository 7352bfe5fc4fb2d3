package common

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/retouch/cmd/web/internal/workspace"
	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/pkg/editstate"
	"thirdcoast.systems/retouch/pkg/imagesrc"
)

// ErrBadRequest returns a 400 Bad Request error.
func ErrBadRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}

// ErrNotFound returns a 404 Not Found error.
func ErrNotFound(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, msg)
}

// ErrConflict returns a 409 Conflict error.
func ErrConflict(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusConflict, msg)
}

// ErrTooManyRequests returns a 429 Too Many Requests error.
func ErrTooManyRequests(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusTooManyRequests, msg)
}

// ErrInternal returns a 500 Internal Server Error.
func ErrInternal(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusInternalServerError, msg)
}

// EditorError maps an error from the editor stack to an HTTP error.
// Unknown errors are logged and reported as 500 without detail.
func EditorError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, editor.ErrNoActiveSession):
		return ErrConflict("load an image first")
	case errors.Is(err, editstate.ErrUnknownParameter):
		return ErrBadRequest(err.Error())
	case errors.Is(err, imagesrc.ErrEmpty):
		return ErrBadRequest("the uploaded file is empty")
	case errors.Is(err, imagesrc.ErrTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image is too large")
	case errors.Is(err, imagesrc.ErrTooManyPixels):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "image dimensions are too large")
	case errors.Is(err, imagesrc.ErrUnsupportedType):
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, err.Error())
	case errors.Is(err, workspace.ErrTooManyWorkspaces), errors.Is(err, workspace.ErrTooManyStreams):
		return ErrTooManyRequests(err.Error())
	case errors.Is(err, workspace.ErrNotFound):
		return ErrNotFound("workspace expired, reload the page")
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		return nil
	default:
		slog.Error("editor request failed", "error", err)
		return ErrInternal("internal error")
	}
}
