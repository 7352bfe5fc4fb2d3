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

type rotationSignals struct {
	Rotation float64 `json:"_rotation"`
}

func readRotation(c echo.Context) (int, error) {
	s := &rotationSignals{}
	if err := datastar.ReadSignals(c.Request(), s); err != nil {
		slog.Warn("failed to read rotation signals", "error", err)
		return 0, common.ErrBadRequest("invalid signals")
	}
	if math.IsNaN(s.Rotation) || math.IsInf(s.Rotation, 0) {
		return 0, common.ErrBadRequest("invalid rotation")
	}
	return int(math.Round(s.Rotation)), nil
}

// HandleDragRotation returns a handler for rotation slider ticks.
func HandleDragRotation() echo.HandlerFunc {
	return func(c echo.Context) error {
		deg, err := readRotation(c)
		if err != nil {
			return err
		}
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.DragRotation(ctx, deg)
		})
	}
}

// HandleCommitRotation returns a handler for rotation slider release.
func HandleCommitRotation() echo.HandlerFunc {
	return func(c echo.Context) error {
		deg, err := readRotation(c)
		if err != nil {
			return err
		}
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.CommitRotation(ctx, deg)
		})
	}
}

// HandleRotate returns a handler for the quarter-turn buttons (:direction is
// left or right).
func HandleRotate() echo.HandlerFunc {
	return func(c echo.Context) error {
		dir, err := editstate.ParseDirection(c.Param("direction"))
		if err != nil {
			return common.ErrBadRequest(err.Error())
		}
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.Rotate(ctx, dir)
		})
	}
}

// HandleFlip returns a handler for the mirror buttons (:axis is horizontal
// or vertical).
func HandleFlip() echo.HandlerFunc {
	return func(c echo.Context) error {
		axis, err := editstate.ParseAxis(c.Param("axis"))
		if err != nil {
			return common.ErrBadRequest(err.Error())
		}
		return runCommand(c, func(ctx context.Context, ctrl *editor.Controller) error {
			return ctrl.Flip(ctx, axis)
		})
	}
}
