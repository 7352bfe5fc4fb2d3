package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"thirdcoast.systems/retouch/cmd/web/internal/web"
	"thirdcoast.systems/retouch/cmd/web/internal/workspace"
	"thirdcoast.systems/retouch/cmd/web/session"
	"thirdcoast.systems/retouch/internal/config"
	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/pkg/render"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting web service")

	conf, err := config.LoadConfig(ctx)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize session manager
	sessionMgr := session.NewManager(conf.SessionSecret)

	// One compositor is shared by every workspace; each render bounds its
	// own parallelism.
	renderer := render.NewCompositor(conf.RenderWorkers)
	hub := workspace.NewHub(workspace.Options{
		MaxWorkspaces: conf.MaxWorkspaces,
		MaxStreams:    conf.MaxSubscribers,
		IdleTimeout:   conf.WorkspaceIdleTimeout,
		NewEditor: func() *editor.Controller {
			return editor.New(editor.Options{
				Renderer:            renderer,
				PreviewMaxDimension: previewMax(conf.PreviewMaxDimension),
			})
		},
	})
	go hub.Run(ctx)

	e, err := web.NewWebserver(ctx, conf, sessionMgr, hub)
	if err != nil {
		slog.Error("failed to create webserver", "error", err)
		os.Exit(1)
	}

	addr := ":" + strconv.Itoa(conf.WebServerPort)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "addr", addr)
	if err := e.Start(addr); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		// Echo returns an error on Shutdown; treat it as normal if context is done.
		if ctx.Err() != nil {
			return
		}
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// previewMax maps the config value, where 0 means full resolution, onto the
// controller option, where 0 means the default and negative disables.
func previewMax(n int) int {
	if n == 0 {
		return -1
	}
	return n
}
