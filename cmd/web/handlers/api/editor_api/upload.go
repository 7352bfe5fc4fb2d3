package editor_api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/pkg/imagesrc"
)

// UploadField is the multipart field carrying the image.
const UploadField = "image"

// HandleUpload returns a handler that decodes an uploaded image and loads it
// into the workspace, replacing any previous image and its history.
func HandleUpload(lim imagesrc.Limits) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, err := common.RequireWorkspace(c)
		if err != nil {
			return err
		}

		fh, err := c.FormFile(UploadField)
		if err != nil {
			if errors.Is(err, http.ErrMissingFile) {
				return common.ErrBadRequest("no image uploaded")
			}
			return common.ErrBadRequest("invalid upload")
		}
		f, err := fh.Open()
		if err != nil {
			return common.ErrBadRequest("invalid upload")
		}
		defer f.Close()

		src, err := imagesrc.Decode(f, fh.Filename, lim)
		if err != nil {
			slog.Info("image upload rejected", "workspace", ws.ID, "name", fh.Filename, "size", fh.Size, "error", err)
			return common.EditorError(err)
		}

		if err := ws.Editor.LoadImage(c.Request().Context(), src); err != nil {
			return common.EditorError(err)
		}
		slog.Info("image loaded", "workspace", ws.ID, "mime", src.MIME, "width", src.Width, "height", src.Height)
		return c.NoContent(http.StatusNoContent)
	}
}
