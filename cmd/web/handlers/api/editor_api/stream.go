package editor_api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/cmd/web/internal/workspace"
	"thirdcoast.systems/retouch/cmd/web/templates"
	"thirdcoast.systems/retouch/internal/editor"
)

const keepAliveInterval = 15 * time.Second

// HandleStream returns an SSE handler that patches the editor UI whenever the
// workspace's controller changes.
func HandleStream(hub *workspace.Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		ws, err := common.RequireWorkspace(c)
		if err != nil {
			return err
		}

		views, unsubscribe, err := hub.Subscribe(ws.ID)
		if err != nil {
			return common.EditorError(err)
		}
		defer unsubscribe()

		resp := c.Response()
		flusher, ok := resp.Writer.(http.Flusher)
		if !ok {
			return c.String(http.StatusInternalServerError, "streaming unsupported")
		}

		common.SetSSEHeaders(c)
		sse := datastar.NewSSE(resp, c.Request())

		// The page shell may be stale if a command landed between the page
		// load and this subscription.
		if err := patchView(sse, ws.Editor.View(), true); err != nil {
			return nil
		}

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()

		for {
			select {
			case <-c.Request().Context().Done():
				return nil
			case v, ok := <-views:
				if !ok {
					return nil
				}
				if err := patchView(sse, v, v.Phase == editor.Idle); err != nil {
					return nil
				}
			case <-ticker.C:
				_, _ = fmt.Fprintf(resp, ": keepalive\n\n")
				flusher.Flush()
			}
		}
	}
}

type patch struct {
	id        string
	component templ.Component
}

// viewPatches lists the parts of the page that reflect v. The filter panel is
// only replaced when full is set; during a drag that would reset the slider
// under the user's pointer, so only the readouts are patched.
func viewPatches(v editor.View, full bool) []patch {
	patches := []patch{
		{templates.IDStatus, templates.Status(v)},
		{templates.IDPreview, templates.Preview(v)},
		{templates.IDHistoryControls, templates.HistoryControls(v)},
		{templates.IDHistoryList, templates.HistoryList(v)},
	}
	if full {
		return append(patches, patch{templates.IDFilterPanel, templates.FilterPanel(v)})
	}
	return append(patches,
		patch{templates.IDSliderReadout, templates.SliderReadout(v)},
		patch{templates.IDRotationReadout, templates.RotationReadout(v)},
	)
}

func patchView(sse *datastar.ServerSentEventGenerator, v editor.View, full bool) error {
	for _, p := range viewPatches(v, full) {
		if err := sse.PatchElementTempl(p.component, datastar.WithSelectorID(p.id), datastar.WithModeReplace()); err != nil {
			return err
		}
	}
	return nil
}
