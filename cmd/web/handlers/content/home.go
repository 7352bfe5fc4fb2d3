package content

import (
	"github.com/labstack/echo/v4"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/cmd/web/templates"
)

// HandleEditorPage renders the editor shell for the request's workspace. The
// page then opens the workspace stream and is kept current over SSE.
func HandleEditorPage(assets templates.Assets) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, err := common.RequireWorkspace(c)
		if err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		return templates.EditorPage(ws.Editor.View(), assets).Render(c.Request().Context(), c.Response())
	}
}
