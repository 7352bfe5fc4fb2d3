package editor_api

import (
	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/cmd/web/templates"
	"thirdcoast.systems/retouch/pkg/utils/markdown"
)

// HandleHelp returns an SSE handler that patches the help panel with doc.
func HandleHelp(doc *markdown.Document) echo.HandlerFunc {
	return func(c echo.Context) error {
		title := doc.Title()
		if title == "" {
			title = "Help"
		}
		common.SetSSEHeaders(c)
		sse := datastar.NewSSE(c.Response().Writer, c.Request())
		_ = sse.PatchElementTempl(
			templates.HelpPanel(title, doc.Render()),
			datastar.WithSelectorID(templates.IDHelp),
			datastar.WithModeReplace(),
		)
		return nil
	}
}
