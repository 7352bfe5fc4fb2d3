package editor_api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/pkg/export"
)

// HandlePreview returns a handler that serves the current preview surface as
// PNG. The ETag is the render revision, so unchanged previews answer 304.
func HandlePreview() echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, err := common.RequireWorkspace(c)
		if err != nil {
			return err
		}

		// Revision and surface are read separately; a render landing in
		// between only makes the ETag stale by one, and the next stream
		// patch requests the newer revision anyway.
		rev := ws.Editor.View().Revision
		surface := ws.Editor.Surface()
		if surface == nil {
			return common.ErrNotFound("no image loaded")
		}

		etag := `"rev-` + strconv.FormatUint(rev, 10) + `"`
		h := c.Response().Header()
		h.Set("ETag", etag)
		h.Set("Cache-Control", "private, no-cache")
		if c.Request().Header.Get("If-None-Match") == etag {
			return c.NoContent(http.StatusNotModified)
		}

		var buf bytes.Buffer
		if err := export.Encode(&buf, surface, export.PNG, 0); err != nil {
			return common.EditorError(err)
		}
		return c.Blob(http.StatusOK, export.PNG.ContentType(), buf.Bytes())
	}
}
