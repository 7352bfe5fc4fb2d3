// Package workspace maps browser workspaces to editor controllers and fans
// controller views out to the workspace's open SSE streams.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"thirdcoast.systems/retouch/internal/editor"
)

const (
	DefaultMaxWorkspaces   = 64
	DefaultMaxStreams      = 8
	DefaultIdleTimeout     = 30 * time.Minute
	defaultPruneInterval   = time.Minute
	subscriberBufferLength = 1
)

var (
	ErrTooManyWorkspaces = errors.New("too many active workspaces")
	ErrTooManyStreams    = errors.New("too many open streams for workspace")
	ErrEmptyID           = errors.New("empty workspace id")
	ErrNotFound          = errors.New("workspace not found")
)

// Workspace is one browser's editing session.
type Workspace struct {
	ID     string
	Editor *editor.Controller

	lastSeen time.Time
	subs     map[chan editor.View]struct{}
}

// Options configures a Hub. Zero values select the defaults.
type Options struct {
	MaxWorkspaces int
	MaxStreams    int
	IdleTimeout   time.Duration
	// NewEditor builds the controller for a new workspace.
	NewEditor func() *editor.Controller
	Logger    *slog.Logger
}

// Hub owns every live workspace. It is safe for concurrent use.
type Hub struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace

	maxWorkspaces int
	maxStreams    int
	idleTimeout   time.Duration
	newEditor     func() *editor.Controller
	logger        *slog.Logger
	now           func() time.Time
}

// NewHub creates an empty hub.
func NewHub(opts Options) *Hub {
	if opts.MaxWorkspaces <= 0 {
		opts.MaxWorkspaces = DefaultMaxWorkspaces
	}
	if opts.MaxStreams <= 0 {
		opts.MaxStreams = DefaultMaxStreams
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	if opts.NewEditor == nil {
		opts.NewEditor = func() *editor.Controller { return editor.New(editor.Options{}) }
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Hub{
		workspaces:    make(map[string]*Workspace),
		maxWorkspaces: opts.MaxWorkspaces,
		maxStreams:    opts.MaxStreams,
		idleTimeout:   opts.IdleTimeout,
		newEditor:     opts.NewEditor,
		logger:        opts.Logger,
		now:           time.Now,
	}
}

// Get returns the workspace for id and marks it as recently used.
func (h *Hub) Get(id string) (*Workspace, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ws, ok := h.workspaces[id]
	if ok {
		ws.lastSeen = h.now()
	}
	return ws, ok
}

// GetOrCreate returns the workspace for id, creating it if needed. When the
// hub is full, idle workspaces are evicted first.
func (h *Hub) GetOrCreate(id string) (*Workspace, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if ws, ok := h.Get(id); ok {
		return ws, nil
	}

	// The controller is not reachable by anyone else until it is stored,
	// so registering the observer outside the hub lock cannot deadlock.
	ctrl := h.newEditor()
	ctrl.OnChange(func(v editor.View) { h.Broadcast(id, v) })

	h.mu.Lock()
	defer h.mu.Unlock()

	if ws, ok := h.workspaces[id]; ok {
		ws.lastSeen = h.now()
		return ws, nil
	}
	if len(h.workspaces) >= h.maxWorkspaces {
		h.pruneLocked(h.now())
		if len(h.workspaces) >= h.maxWorkspaces {
			return nil, ErrTooManyWorkspaces
		}
	}

	ws := &Workspace{
		ID:       id,
		Editor:   ctrl,
		lastSeen: h.now(),
		subs:     make(map[chan editor.View]struct{}),
	}
	h.workspaces[id] = ws
	h.logger.Debug("workspace created", "workspace", id, "total", len(h.workspaces))
	return ws, nil
}

// Subscribe registers a stream for view updates of workspace id. The returned
// channel always holds the newest view; intermediate views may be skipped.
func (h *Hub) Subscribe(id string) (<-chan editor.View, func(), error) {
	h.mu.Lock()
	ws, ok := h.workspaces[id]
	if !ok {
		h.mu.Unlock()
		return nil, nil, ErrNotFound
	}
	if len(ws.subs) >= h.maxStreams {
		h.mu.Unlock()
		return nil, nil, ErrTooManyStreams
	}
	ch := make(chan editor.View, subscriberBufferLength)
	ws.subs[ch] = struct{}{}
	ws.lastSeen = h.now()
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := ws.subs[ch]; ok {
			delete(ws.subs, ch)
			close(ch)
		}
		ws.lastSeen = h.now()
	}
	return ch, unsubscribe, nil
}

// Broadcast delivers v to every stream of workspace id without blocking.
// A slow stream loses its unread view in favour of v.
func (h *Hub) Broadcast(id string, v editor.View) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ws, ok := h.workspaces[id]
	if !ok {
		return
	}
	for ch := range ws.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- v:
		default:
		}
	}
}

// Len returns the number of live workspaces.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.workspaces)
}

// Streams returns the number of open streams for workspace id.
func (h *Hub) Streams(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ws, ok := h.workspaces[id]; ok {
		return len(ws.subs)
	}
	return 0
}

// PruneIdle removes workspaces with no open streams that have not been used
// within the idle timeout.
func (h *Hub) PruneIdle(now time.Time) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pruneLocked(now)
}

func (h *Hub) pruneLocked(now time.Time) int {
	removed := 0
	for id, ws := range h.workspaces {
		if len(ws.subs) > 0 || now.Sub(ws.lastSeen) <= h.idleTimeout {
			continue
		}
		delete(h.workspaces, id)
		removed++
	}
	if removed > 0 {
		h.logger.Info("evicted idle workspaces", "removed", removed, "remaining", len(h.workspaces))
	}
	return removed
}

// Run prunes idle workspaces periodically until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(defaultPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.PruneIdle(now)
		}
	}
}
