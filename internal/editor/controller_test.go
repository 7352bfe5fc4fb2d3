package editor

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/retouch/pkg/editstate"
	"thirdcoast.systems/retouch/pkg/imagesrc"
	"thirdcoast.systems/retouch/pkg/render"
)

type stubRenderer struct {
	mu    sync.Mutex
	calls int
	last  editstate.State
	err   error
}

func (r *stubRenderer) Render(_ context.Context, src image.Image, st editstate.State) (*image.RGBA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	r.last = st
	b := src.Bounds()
	return image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy())), nil
}

func (r *stubRenderer) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func testSource(w, h int) *imagesrc.Source {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return &imagesrc.Source{Name: "test.png", MIME: "image/png", Image: img, Width: w, Height: h}
}

func loaded(t *testing.T) (*Controller, *stubRenderer) {
	t.Helper()
	r := &stubRenderer{}
	c := New(Options{Renderer: r})
	require.NoError(t, c.LoadImage(context.Background(), testSource(8, 6)))
	return c, r
}

func TestController_NoActiveSession(t *testing.T) {
	ctx := context.Background()
	r := &stubRenderer{}
	c := New(Options{Renderer: r})

	notified := 0
	c.OnChange(func(View) { notified++ })

	cmds := []Command{
		{Kind: SelectParameter, Parameter: editstate.Sepia},
		{Kind: DragParameter, Parameter: editstate.Brightness, Value: 120},
		{Kind: CommitParameter, Parameter: editstate.Brightness, Value: 120},
		{Kind: DragRotation, Degrees: 45},
		{Kind: CommitRotation, Degrees: 45},
		{Kind: Rotate, Direction: editstate.Right},
		{Kind: Flip, Axis: editstate.Vertical},
		{Kind: Reset},
		{Kind: Undo},
		{Kind: Redo},
		{Kind: JumpTo, Index: 0},
	}
	for _, cmd := range cmds {
		t.Run(cmd.Kind.String(), func(t *testing.T) {
			require.ErrorIs(t, c.Dispatch(ctx, cmd), ErrNoActiveSession)
		})
	}

	_, err := c.Export(ctx)
	require.ErrorIs(t, err, ErrNoActiveSession)

	v := c.View()
	assert.False(t, v.Loaded)
	assert.Equal(t, -1, v.Cursor)
	assert.Empty(t, v.History)
	assert.False(t, v.CanUndo)
	assert.False(t, v.CanRedo)
	assert.Nil(t, c.Surface())
	assert.Zero(t, r.Calls())
	assert.Zero(t, notified)
}

func TestController_LoadImageSeedsHistory(t *testing.T) {
	c, _ := loaded(t)

	v := c.View()
	require.True(t, v.Loaded)
	require.Equal(t, []string{"Original Image"}, v.Labels())
	require.Equal(t, 0, v.Cursor)
	require.False(t, v.CanUndo)
	require.False(t, v.CanRedo)
	require.Equal(t, editstate.New(), v.State)
	require.Equal(t, Idle, v.Phase)
	require.Equal(t, 8, v.Width)
	require.Equal(t, 6, v.Height)
	require.NotNil(t, c.Surface())
}

func TestController_LoadImageDiscardsPreviousHistory(t *testing.T) {
	ctx := context.Background()
	c, _ := loaded(t)
	require.NoError(t, c.Rotate(ctx, editstate.Right))
	require.NoError(t, c.CommitParameter(ctx, editstate.Sepia, 40))

	require.NoError(t, c.LoadImage(ctx, testSource(4, 4)))
	v := c.View()
	require.Equal(t, []string{"Original Image"}, v.Labels())
	require.Equal(t, editstate.New(), v.State)
	require.Equal(t, 4, v.Width)
}

func TestController_LoadImageRejectsNil(t *testing.T) {
	c := New(Options{Renderer: &stubRenderer{}})
	require.ErrorIs(t, c.LoadImage(context.Background(), nil), render.ErrNoSource)
	require.False(t, c.View().Loaded)
}

func TestController_Scenario(t *testing.T) {
	ctx := context.Background()
	c, _ := loaded(t)

	for _, v := range []float64{105, 112, 126, 133, 140} {
		require.NoError(t, c.DragParameter(ctx, editstate.Brightness, v))
	}
	require.NoError(t, c.CommitParameter(ctx, editstate.Brightness, 140))
	v := c.View()
	require.Equal(t, 2, len(v.History))
	require.Equal(t, 1, v.Cursor)
	require.Equal(t, "Brightness: 140%", v.CurrentLabel())

	require.NoError(t, c.Rotate(ctx, editstate.Right))
	v = c.View()
	require.Equal(t, 3, len(v.History))
	require.Equal(t, 2, v.Cursor)
	require.Equal(t, "Rotate 90deg", v.CurrentLabel())
	require.Equal(t, 90, v.State.Rotation)

	require.NoError(t, c.Undo(ctx))
	v = c.View()
	require.Equal(t, 1, v.Cursor)
	require.Equal(t, float64(140), v.State.Brightness)
	require.Equal(t, 0, v.State.Rotation)
	require.True(t, v.CanUndo)
	require.True(t, v.CanRedo)

	require.NoError(t, c.JumpTo(ctx, 0))
	v = c.View()
	require.Equal(t, 0, v.Cursor)
	require.Equal(t, editstate.New(), v.State)
	require.Len(t, v.History, 3)
}

func TestController_DragDoesNotFloodHistory(t *testing.T) {
	ctx := context.Background()
	c, r := loaded(t)
	before := r.Calls()

	for i := 0; i < 200; i++ {
		require.NoError(t, c.DragParameter(ctx, editstate.Saturation, float64(i)))
	}
	v := c.View()
	require.Len(t, v.History, 1)
	require.Equal(t, Dragging, v.Phase)
	require.Equal(t, float64(199), v.State.Saturation)
	require.Equal(t, editstate.Saturation, v.State.Active)
	require.Equal(t, before+200, r.Calls(), "every tick re-renders")

	require.NoError(t, c.CommitParameter(ctx, editstate.Saturation, 150))
	v = c.View()
	require.Len(t, v.History, 2)
	require.Equal(t, Idle, v.Phase)
	require.Equal(t, "Saturation: 150%", v.CurrentLabel())
	require.Equal(t, float64(150), v.State.Saturation)
}

func TestController_ClampsContinuousInput(t *testing.T) {
	ctx := context.Background()
	c, r := loaded(t)

	require.NoError(t, c.DragParameter(ctx, editstate.Brightness, 900))
	require.Equal(t, float64(200), r.last.Brightness, "previews never exceed range")

	require.NoError(t, c.CommitParameter(ctx, editstate.Blur, -4))
	v := c.View()
	require.Equal(t, "Blur: 0px", v.CurrentLabel())
	require.NoError(t, v.State.Validate())
}

func TestController_SelectParameterNeverCommits(t *testing.T) {
	ctx := context.Background()
	c, r := loaded(t)
	calls := r.Calls()

	require.NoError(t, c.SelectParameter(ctx, editstate.Blur))
	v := c.View()
	require.Len(t, v.History, 1)
	require.Equal(t, editstate.Blur, v.State.Active)
	require.Equal(t, calls, r.Calls(), "selection does not change pixels")

	require.NoError(t, c.CommitParameter(ctx, editstate.Blur, 3))
	v = c.View()
	require.Len(t, v.History, 2)
	require.Equal(t, editstate.Blur, v.State.Active)

	err := c.SelectParameter(ctx, editstate.Parameter(42))
	require.ErrorIs(t, err, editstate.ErrUnknownParameter)
}

func TestController_RotationIsNormalized(t *testing.T) {
	ctx := context.Background()
	c, _ := loaded(t)

	require.NoError(t, c.Rotate(ctx, editstate.Left))
	v := c.View()
	require.Equal(t, 270, v.State.Rotation)
	require.Equal(t, "Rotate 270deg", v.CurrentLabel())

	require.NoError(t, c.Rotate(ctx, editstate.Right))
	v = c.View()
	require.Equal(t, 0, v.State.Rotation)
	require.Equal(t, "Rotate 0deg", v.CurrentLabel())

	for i := 0; i < 5; i++ {
		require.NoError(t, c.Rotate(ctx, editstate.Right))
	}
	require.Equal(t, 90, c.View().State.Rotation)
}

func TestController_ContinuousRotation(t *testing.T) {
	ctx := context.Background()
	c, _ := loaded(t)

	for _, d := range []int{10, 20, 30, 45} {
		require.NoError(t, c.DragRotation(ctx, d))
	}
	require.Len(t, c.View().History, 1)

	require.NoError(t, c.CommitRotation(ctx, 405))
	v := c.View()
	require.Len(t, v.History, 2)
	require.Equal(t, 45, v.State.Rotation)
	require.Equal(t, "Rotate 45deg", v.CurrentLabel())
}

func TestController_Flip(t *testing.T) {
	ctx := context.Background()
	c, _ := loaded(t)

	require.NoError(t, c.Flip(ctx, editstate.Horizontal))
	require.NoError(t, c.Flip(ctx, editstate.Vertical))
	v := c.View()
	require.Equal(t, []string{"Original Image", "Flip H", "Flip V"}, v.Labels())
	require.Equal(t, editstate.FlipMirror, v.State.FlipHorizontal)
	require.Equal(t, editstate.FlipMirror, v.State.FlipVertical)

	require.NoError(t, c.Flip(ctx, editstate.Horizontal))
	require.Equal(t, editstate.FlipNone, c.View().State.FlipHorizontal)
}

func TestController_ResetKeepsHistoryReachable(t *testing.T) {
	ctx := context.Background()
	c, _ := loaded(t)

	require.NoError(t, c.CommitParameter(ctx, editstate.Sepia, 60))
	require.NoError(t, c.Rotate(ctx, editstate.Right))
	require.NoError(t, c.Reset(ctx))

	v := c.View()
	require.Equal(t, "Reset Filters", v.CurrentLabel())
	require.Len(t, v.History, 4)
	require.True(t, v.State.IsIdentity())
	require.Equal(t, editstate.Brightness, v.State.Active)

	require.NoError(t, c.Undo(ctx))
	v = c.View()
	require.Equal(t, float64(60), v.State.Sepia)
	require.Equal(t, 90, v.State.Rotation)
}

func TestController_UndoAbandonsPendingDrag(t *testing.T) {
	ctx := context.Background()
	c, _ := loaded(t)
	require.NoError(t, c.CommitParameter(ctx, editstate.Inversion, 30))

	require.NoError(t, c.DragParameter(ctx, editstate.Inversion, 90))
	require.Equal(t, Dragging, c.View().Phase)

	require.NoError(t, c.Undo(ctx))
	v := c.View()
	require.Equal(t, Idle, v.Phase)
	require.Equal(t, float64(0), v.State.Inversion)
	require.Len(t, v.History, 2)

	require.NoError(t, c.Redo(ctx))
	require.Equal(t, float64(30), c.View().State.Inversion)
}

func TestController_BoundaryMovesAreSilent(t *testing.T) {
	ctx := context.Background()
	c, r := loaded(t)
	require.NoError(t, c.Rotate(ctx, editstate.Right))

	notified := 0
	c.OnChange(func(View) { notified++ })
	calls := r.Calls()
	rev := c.View().Revision

	require.NoError(t, c.Redo(ctx))
	require.NoError(t, c.JumpTo(ctx, 7))
	require.NoError(t, c.JumpTo(ctx, -1))
	require.NoError(t, c.Undo(ctx))
	require.NoError(t, c.Undo(ctx))

	v := c.View()
	require.Equal(t, 0, v.Cursor)
	require.Equal(t, 1, notified, "only the first undo changed anything")
	require.Equal(t, calls+1, r.Calls())
	require.Equal(t, rev+1, v.Revision)
}

func TestController_PushAfterUndoDiscardsRedo(t *testing.T) {
	ctx := context.Background()
	c, _ := loaded(t)
	require.NoError(t, c.CommitParameter(ctx, editstate.Brightness, 120))
	require.NoError(t, c.CommitParameter(ctx, editstate.Brightness, 160))
	require.NoError(t, c.Undo(ctx))

	require.NoError(t, c.Flip(ctx, editstate.Vertical))
	v := c.View()
	require.Equal(t, []string{"Original Image", "Brightness: 120%", "Flip V"}, v.Labels())
	require.False(t, v.CanRedo)
	require.Equal(t, float64(120), v.State.Brightness)
}

func TestController_RenderFailureLeavesStateIntact(t *testing.T) {
	ctx := context.Background()
	c, r := loaded(t)
	require.NoError(t, c.Rotate(ctx, editstate.Right))
	before := c.View()

	boom := errors.New("boom")
	r.mu.Lock()
	r.err = boom
	r.mu.Unlock()

	require.ErrorIs(t, c.CommitParameter(ctx, editstate.Sepia, 50), boom)
	require.ErrorIs(t, c.DragParameter(ctx, editstate.Sepia, 50), boom)
	require.ErrorIs(t, c.Undo(ctx), boom)

	after := c.View()
	require.Equal(t, before.Labels(), after.Labels())
	require.Equal(t, before.Cursor, after.Cursor)
	require.Equal(t, before.State, after.State)
	require.Equal(t, before.Revision, after.Revision)
}

func TestController_ObserversSeeEveryChange(t *testing.T) {
	ctx := context.Background()
	c := New(Options{Renderer: &stubRenderer{}})

	var views []View
	c.OnChange(func(v View) { views = append(views, v) })

	require.NoError(t, c.LoadImage(ctx, testSource(2, 2)))
	require.NoError(t, c.DragParameter(ctx, editstate.Grayscale, 50))
	require.NoError(t, c.CommitParameter(ctx, editstate.Grayscale, 50))
	require.NoError(t, c.Undo(ctx))

	require.Len(t, views, 4)
	require.Equal(t, []int{0, 0, 1, 0}, []int{views[0].Cursor, views[1].Cursor, views[2].Cursor, views[3].Cursor})
	require.Equal(t, Dragging, views[1].Phase)
	require.True(t, views[2].History[1].Current)
	for i := 1; i < len(views); i++ {
		require.Greater(t, views[i].Revision, views[i-1].Revision)
	}
}

func TestController_PreviewIsDownsampled(t *testing.T) {
	ctx := context.Background()
	c := New(Options{Renderer: render.NewCompositor(2), PreviewMaxDimension: 4})
	require.NoError(t, c.LoadImage(ctx, testSource(16, 8)))

	require.Equal(t, image.Rect(0, 0, 4, 2), c.Surface().Bounds())

	out, err := c.Export(ctx)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 16, 8), out.Bounds())
}

func TestDispatch_UnknownCommand(t *testing.T) {
	c, _ := loaded(t)
	err := c.Dispatch(context.Background(), Command{Kind: CommandKind(99)})
	require.ErrorIs(t, err, ErrUnknownCommand)
	require.Equal(t, "command(99)", CommandKind(99).String())
}
