// Package editor owns one editing session: the working state, its linear
// history and the preview surface derived from both.
//
// Continuous controls (slider drags) only move the working state and
// re-render. Discrete completions (slider release, button clicks) push exactly
// one history entry. Undo, redo and jumps move the history cursor and never
// push.
package editor

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"thirdcoast.systems/retouch/pkg/editstate"
	"thirdcoast.systems/retouch/pkg/history"
	"thirdcoast.systems/retouch/pkg/imagesrc"
	"thirdcoast.systems/retouch/pkg/render"
)

// DefaultPreviewMaxDimension bounds the preview surface's longest side.
const DefaultPreviewMaxDimension = 1600

// Options configures a Controller.
type Options struct {
	// Renderer draws previews and exports. Defaults to a render.Compositor.
	Renderer render.Renderer
	// PreviewMaxDimension downsamples the preview source; 0 selects
	// DefaultPreviewMaxDimension and a negative value disables it.
	PreviewMaxDimension int
	Logger              *slog.Logger
}

// Controller serializes commands for a single session. Commands are handled
// to completion in arrival order; observers run while the controller is
// locked and must not call back into it.
type Controller struct {
	mu sync.Mutex

	renderer   render.Renderer
	previewMax int
	logger     *slog.Logger

	source   *imagesrc.Source
	preview  image.Image
	surface  *image.RGBA
	revision uint64

	log     *history.Log
	working editstate.State
	phase   Phase

	observers []func(View)
}

// New builds a Controller with no image loaded.
func New(opts Options) *Controller {
	if opts.Renderer == nil {
		opts.Renderer = render.NewCompositor(0)
	}
	if opts.PreviewMaxDimension == 0 {
		opts.PreviewMaxDimension = DefaultPreviewMaxDimension
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Controller{
		renderer:   opts.Renderer,
		previewMax: opts.PreviewMaxDimension,
		logger:     opts.Logger,
		log:        history.New(),
		working:    editstate.New(),
	}
}

// OnChange registers fn to receive the view after every command that changed
// something.
func (c *Controller) OnChange(fn func(View)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// LoadImage replaces the session's source, resets the working state to the
// defaults and seeds history with a single "Original Image" entry.
func (c *Controller) LoadImage(ctx context.Context, src *imagesrc.Source) error {
	if src == nil || src.Image == nil {
		return fmt.Errorf("load image: %w", render.ErrNoSource)
	}

	preview := src.Image
	if c.previewMax > 0 {
		preview = render.Thumbnail(src.Image, c.previewMax)
	}
	baseline := editstate.New()
	surface, err := c.renderer.Render(ctx, preview, baseline)
	if err != nil {
		return fmt.Errorf("load image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.source = src
	c.preview = preview
	c.working = baseline
	c.phase = Idle
	c.log.Reset(baseline, editstate.LabelOriginal)
	c.setSurface(surface)

	c.logger.Debug("image loaded", "name", src.Name, "mime", src.MIME, "width", src.Width, "height", src.Height)
	c.notify()
	return nil
}

// SelectParameter makes p the slider's active parameter. It never commits.
func (c *Controller) SelectParameter(_ context.Context, p editstate.Parameter) error {
	if !p.Valid() {
		return fmt.Errorf("select: %w: %d", editstate.ErrUnknownParameter, int(p))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}
	if c.working.Active == p {
		return nil
	}
	c.working = c.working.WithActive(p)
	c.notify()
	return nil
}

// DragParameter moves p to v (clamped) in the working state and re-renders
// the preview. History is untouched.
func (c *Controller) DragParameter(ctx context.Context, p editstate.Parameter, v float64) error {
	if !p.Valid() {
		return fmt.Errorf("drag: %w: %d", editstate.ErrUnknownParameter, int(p))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}
	return c.drag(ctx, c.working.With(p, v).WithActive(p))
}

// CommitParameter applies the final value of a drag and pushes one entry
// labelled like "Brightness: 140%".
func (c *Controller) CommitParameter(ctx context.Context, p editstate.Parameter, v float64) error {
	if !p.Valid() {
		return fmt.Errorf("commit: %w: %d", editstate.ErrUnknownParameter, int(p))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}
	next := c.working.With(p, v).WithActive(p)
	return c.commit(ctx, next, editstate.ParameterLabel(p, next.Value(p)))
}

// DragRotation previews an absolute rotation from the continuous control.
func (c *Controller) DragRotation(ctx context.Context, deg int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}
	return c.drag(ctx, c.working.WithRotation(deg))
}

// CommitRotation applies an absolute rotation and pushes "Rotate <n>deg".
func (c *Controller) CommitRotation(ctx context.Context, deg int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}
	next := c.working.WithRotation(deg)
	return c.commit(ctx, next, editstate.RotateLabel(next.Rotation))
}

// Rotate turns the image a quarter turn and commits.
func (c *Controller) Rotate(ctx context.Context, dir editstate.Direction) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}
	next := c.working.Rotated(dir.Degrees())
	return c.commit(ctx, next, editstate.RotateLabel(next.Rotation))
}

// Flip toggles one mirror axis and commits.
func (c *Controller) Flip(ctx context.Context, axis editstate.Axis) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}
	return c.commit(ctx, c.working.Flipped(axis), editstate.FlipLabel(axis))
}

// Reset restores every field to its default and commits "Reset Filters".
// Earlier history stays reachable through undo.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}
	return c.commit(ctx, editstate.New(), editstate.LabelReset)
}

// Undo moves the cursor back one entry. At the oldest entry it does nothing.
func (c *Controller) Undo(ctx context.Context) error {
	return c.travel(ctx, "undo", func() (editstate.State, bool) { return c.log.Undo() })
}

// Redo moves the cursor forward one entry. At the newest entry it does nothing.
func (c *Controller) Redo(ctx context.Context) error {
	return c.travel(ctx, "redo", func() (editstate.State, bool) { return c.log.Redo() })
}

// JumpTo moves the cursor to entry i. Out-of-range indices do nothing.
func (c *Controller) JumpTo(ctx context.Context, i int) error {
	return c.travel(ctx, "jump", func() (editstate.State, bool) { return c.log.JumpTo(i) })
}

// View returns the current reflection of the session.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view()
}

// Surface returns the most recent preview render, or nil before a load.
// The returned image must not be modified.
func (c *Controller) Surface() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

// Source returns the loaded image, or nil.
func (c *Controller) Source() *imagesrc.Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Export renders the working state against the full-resolution source.
func (c *Controller) Export(ctx context.Context) (*image.RGBA, error) {
	c.mu.Lock()
	src, st := c.source, c.working
	c.mu.Unlock()
	if src == nil {
		return nil, ErrNoActiveSession
	}
	out, err := c.renderer.Render(ctx, src.Image, st)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return out, nil
}

// drag renders next and makes it the working state without touching history.
func (c *Controller) drag(ctx context.Context, next editstate.State) error {
	surface, err := c.renderer.Render(ctx, c.preview, next)
	if err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	c.working = next
	c.phase = Dragging
	c.setSurface(surface)
	c.notify()
	return nil
}

// commit renders next, makes it the working state and pushes it.
func (c *Controller) commit(ctx context.Context, next editstate.State, label string) error {
	next = next.Clamped()
	surface, err := c.renderer.Render(ctx, c.preview, next)
	if err != nil {
		return fmt.Errorf("render preview: %w", err)
	}
	c.working = next
	c.phase = Idle
	c.log.Push(next, label)
	c.setSurface(surface)

	c.logger.Debug("history push", "label", label, "cursor", c.log.Cursor(), "entries", c.log.Len())
	c.notify()
	return nil
}

// travel applies a cursor move. A pending drag is abandoned.
func (c *Controller) travel(ctx context.Context, op string, move func() (editstate.State, bool)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.source == nil {
		return ErrNoActiveSession
	}

	before := c.log.Cursor()
	st, ok := move()
	if !ok {
		return nil
	}
	surface, err := c.renderer.Render(ctx, c.preview, st)
	if err != nil {
		// Keep the log and working state consistent with what is on screen.
		c.log.JumpTo(before)
		return fmt.Errorf("%s: render preview: %w", op, err)
	}
	c.working = st
	c.phase = Idle
	c.setSurface(surface)
	c.notify()
	return nil
}

func (c *Controller) setSurface(s *image.RGBA) {
	c.surface = s
	c.revision++
}

func (c *Controller) view() View {
	v := View{
		Loaded:   c.source != nil,
		Cursor:   c.log.Cursor(),
		CanUndo:  c.log.CanUndo(),
		CanRedo:  c.log.CanRedo(),
		State:    c.working,
		Phase:    c.phase,
		Revision: c.revision,
	}
	if c.source != nil {
		v.Name = c.source.Name
		v.Width = c.source.Width
		v.Height = c.source.Height
	}
	entries := c.log.Entries()
	v.History = make([]HistoryItem, len(entries))
	for i, e := range entries {
		v.History[i] = HistoryItem{Index: i, Label: e.Label, Current: i == v.Cursor}
	}
	return v
}

func (c *Controller) notify() {
	if len(c.observers) == 0 {
		return
	}
	v := c.view()
	for _, fn := range c.observers {
		fn(v)
	}
}
