package editor_api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/pkg/export"
	"thirdcoast.systems/retouch/pkg/utils/format"
)

// HandleExport returns a handler that renders the working state at full
// resolution and sends it as a download. ?format= overrides def. With
// ?inline=1 the image comes back as a data URL in a text/plain body.
func HandleExport(def export.Format, quality int) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, err := common.RequireWorkspace(c)
		if err != nil {
			return err
		}

		f := def
		if q := c.QueryParam("format"); q != "" {
			if f, err = export.ParseFormat(q); err != nil {
				return common.ErrBadRequest(err.Error())
			}
		}

		img, err := ws.Editor.Export(c.Request().Context())
		if err != nil {
			return common.EditorError(err)
		}

		if c.QueryParam("inline") == "1" {
			url, err := export.DataURL(img, f, quality)
			if err != nil {
				return common.EditorError(err)
			}
			slog.Info("image exported inline", "workspace", ws.ID, "format", f, "size", format.Bytes(int64(len(url))))
			c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
			return c.String(http.StatusOK, url)
		}

		var buf bytes.Buffer
		if err := export.Encode(&buf, img, f, quality); err != nil {
			return common.EditorError(err)
		}

		var name string
		if src := ws.Editor.Source(); src != nil {
			name = src.Name
		}
		filename := export.Filename(name, f)
		slog.Info("image exported", "workspace", ws.ID, "format", f, "size", format.Bytes(int64(buf.Len())))

		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Blob(http.StatusOK, f.ContentType(), buf.Bytes())
	}
}
