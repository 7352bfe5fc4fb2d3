package editor_api

import (
	"context"
	"log/slog"
	"math"

	"github.com/labstack/echo/v4"
	"github.com/starfederation/datastar-go/datastar"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/pkg/editstate"
)

// parameterSignals are sent explicitly via filterSignals because of their
// underscore prefix.
type parameterSignals struct {
	Parameter string  `json:"_parameter"`
	Value     float64 `json:"_value"`
}

func readParameterSignals(c echo.Context) (editstate.Parameter, float64, error) {
	s := &parameterSignals{}
	if err := datastar.ReadSignals(c.Request(), s); err != nil {
		slog.Warn("failed to read parameter signals", "error", err)
		return 0, 0, common.ErrBadRequest("invalid signals")
	}
	p, err := editstate.ParseParameter(s.Parameter)
	if err != nil {
		return 0, 0, common.ErrBadRequest(err.Error())
	}
	if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
		return 0, 0, common.ErrBadRequest("invalid value")
	}
	return p, s.Value, nil
}

// HandleSelectParameter returns a handler that switches the active slider.
func HandleSelectParameter() echo.HandlerFunc {
	return func(c echo.Context) error {
		p, _, err := readParameterSignals(c)
		if err != nil {
			return err
		}
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.SelectParameter(ctx, p)
		})
	}
}

// HandleDragParameter returns a handler for slider input ticks.
func HandleDragParameter() echo.HandlerFunc {
	return func(c echo.Context) error {
		p, v, err := readParameterSignals(c)
		if err != nil {
			return err
		}
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.DragParameter(ctx, p, v)
		})
	}
}

// HandleCommitParameter returns a handler for slider release.
func HandleCommitParameter() echo.HandlerFunc {
	return func(c echo.Context) error {
		p, v, err := readParameterSignals(c)
		if err != nil {
			return err
		}
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.CommitParameter(ctx, p, v)
		})
	}
}
