package workspace

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/pkg/editstate"
	"thirdcoast.systems/retouch/pkg/imagesrc"
	"thirdcoast.systems/retouch/pkg/render"
)

func testHub(opts Options) (*Hub, *time.Time) {
	if opts.NewEditor == nil {
		opts.NewEditor = func() *editor.Controller {
			return editor.New(editor.Options{Renderer: render.NewCompositor(1)})
		}
	}
	h := NewHub(opts)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }
	return h, &now
}

func testSource() *imagesrc.Source {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	return &imagesrc.Source{Name: "a.png", Image: img, Width: 4, Height: 4}
}

func TestHub_GetOrCreate(t *testing.T) {
	h, _ := testHub(Options{})

	_, err := h.GetOrCreate("")
	require.ErrorIs(t, err, ErrEmptyID)

	a, err := h.GetOrCreate("a")
	require.NoError(t, err)
	again, err := h.GetOrCreate("a")
	require.NoError(t, err)
	require.Same(t, a, again)
	require.Equal(t, 1, h.Len())

	_, ok := h.Get("missing")
	require.False(t, ok)
}

func TestHub_CapEvictsIdleFirst(t *testing.T) {
	h, now := testHub(Options{MaxWorkspaces: 2, IdleTimeout: time.Minute})

	_, err := h.GetOrCreate("a")
	require.NoError(t, err)
	_, err = h.GetOrCreate("b")
	require.NoError(t, err)

	_, err = h.GetOrCreate("c")
	require.ErrorIs(t, err, ErrTooManyWorkspaces)

	*now = now.Add(2 * time.Minute)
	_, err = h.GetOrCreate("c")
	require.NoError(t, err)
	require.Equal(t, 1, h.Len())
}

func TestHub_PruneKeepsStreamingWorkspaces(t *testing.T) {
	h, now := testHub(Options{IdleTimeout: time.Minute})
	_, err := h.GetOrCreate("watching")
	require.NoError(t, err)
	_, err = h.GetOrCreate("idle")
	require.NoError(t, err)

	_, unsubscribe, err := h.Subscribe("watching")
	require.NoError(t, err)

	*now = now.Add(time.Hour)
	require.Equal(t, 1, h.PruneIdle(*now))
	_, ok := h.Get("watching")
	require.True(t, ok)

	unsubscribe()
	*now = now.Add(time.Hour)
	require.Equal(t, 1, h.PruneIdle(*now))
	require.Equal(t, 0, h.Len())
}

func TestHub_StreamCap(t *testing.T) {
	h, _ := testHub(Options{MaxStreams: 2})
	_, err := h.GetOrCreate("a")
	require.NoError(t, err)

	_, u1, err := h.Subscribe("a")
	require.NoError(t, err)
	_, u2, err := h.Subscribe("a")
	require.NoError(t, err)
	_, _, err = h.Subscribe("a")
	require.ErrorIs(t, err, ErrTooManyStreams)
	require.Equal(t, 2, h.Streams("a"))

	u1()
	u1()
	require.Equal(t, 1, h.Streams("a"))
	u2()
	require.Equal(t, 0, h.Streams("a"))
}

func TestHub_ControllerChangesReachSubscribers(t *testing.T) {
	ctx := context.Background()
	h, _ := testHub(Options{})
	ws, err := h.GetOrCreate("a")
	require.NoError(t, err)

	ch, unsubscribe, err := h.Subscribe("a")
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, ws.Editor.LoadImage(ctx, testSource()))
	v := <-ch
	require.Equal(t, []string{"Original Image"}, v.Labels())

	// Unread views are replaced by the newest one.
	require.NoError(t, ws.Editor.Rotate(ctx, editstate.Right))
	require.NoError(t, ws.Editor.Flip(ctx, editstate.Horizontal))
	v = <-ch
	require.Equal(t, "Flip H", v.CurrentLabel())
	select {
	case extra := <-ch:
		t.Fatalf("unexpected queued view %q", extra.CurrentLabel())
	default:
	}
}

func TestHub_WorkspacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	h, _ := testHub(Options{})
	a, err := h.GetOrCreate("a")
	require.NoError(t, err)
	b, err := h.GetOrCreate("b")
	require.NoError(t, err)

	chB, unsubscribe, err := h.Subscribe("b")
	require.NoError(t, err)
	defer unsubscribe()

	require.NoError(t, a.Editor.LoadImage(ctx, testSource()))
	select {
	case <-chB:
		t.Fatal("workspace b received workspace a's view")
	default:
	}
	require.ErrorIs(t, b.Editor.Undo(ctx), editor.ErrNoActiveSession)
}

func TestHub_ConcurrentUse(t *testing.T) {
	ctx := context.Background()
	h, _ := testHub(Options{MaxWorkspaces: 100})
	ws, err := h.GetOrCreate("shared")
	require.NoError(t, err)
	require.NoError(t, ws.Editor.LoadImage(ctx, testSource()))

	ch, unsubscribe, err := h.Subscribe("shared")
	require.NoError(t, err)
	defer unsubscribe()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = h.GetOrCreate("shared")
			_ = ws.Editor.CommitParameter(ctx, editstate.Sepia, float64(i))
		}(i)
	}
	wg.Wait()

	require.Len(t, ws.Editor.View().History, 9)
	v := <-ch
	require.Equal(t, 8, v.Cursor)
}

func TestHub_SubscribeUnknownWorkspace(t *testing.T) {
	h, _ := testHub(Options{})
	_, _, err := h.Subscribe("nope")
	require.ErrorIs(t, err, ErrNotFound)
}
