package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"thirdcoast.systems/retouch/cmd/web/ctxkeys"
	"thirdcoast.systems/retouch/cmd/web/handlers/api/editor_api"
	"thirdcoast.systems/retouch/cmd/web/handlers/common"
	"thirdcoast.systems/retouch/cmd/web/handlers/content"
	"thirdcoast.systems/retouch/cmd/web/internal/workspace"
	staticpkg "thirdcoast.systems/retouch/cmd/web/internal/web/utils/static"
	"thirdcoast.systems/retouch/cmd/web/session"
	"thirdcoast.systems/retouch/cmd/web/templates"
	"thirdcoast.systems/retouch/internal/config"
	"thirdcoast.systems/retouch/pkg/utils/markdown"
	"thirdcoast.systems/retouch/static"
)

const (
	// HelpDocument is the embedded markdown served by /api/editor/help.
	HelpDocument = "docs/help.md"
	// StaticPrefix is where the embedded dist/ assets are mounted.
	StaticPrefix = "/static/"
)

type Webserver struct {
	*echo.Echo
	conf           *config.Config
	sessionManager *session.Manager
	hub            *workspace.Hub
	staticCache    *staticpkg.StaticCache
	help           *markdown.Document
}

func NewWebserver(ctx context.Context, conf *config.Config, sessionManager *session.Manager, hub *workspace.Hub) (*Webserver, error) {
	e := echo.New()

	staticCache, err := staticpkg.NewStaticCache(static.FS, StaticPrefix, "dist")
	if err != nil {
		return nil, err
	}

	help, err := markdown.Load(static.FS, HelpDocument)
	if err != nil {
		return nil, err
	}

	webserver := &Webserver{
		Echo:           e,
		conf:           conf,
		sessionManager: sessionManager,
		hub:            hub,
		staticCache:    staticCache,
		help:           help,
	}

	if err = webserver.setupMiddleware(); err != nil {
		return nil, err
	}

	if err = webserver.registerRoutes(); err != nil {
		return nil, err
	}

	return webserver, nil
}

func (s *Webserver) setupMiddleware() error {
	s.HideBanner = true
	s.HidePort = true
	s.Use(middleware.BodyLimit(bodyLimit(s.conf.MaxUploadBytes)))
	s.Use(middleware.Recover())
	s.Use(middleware.RequestID())
	s.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// PNG is already compressed and SSE must not be buffered.
			switch c.Path() {
			case "/api/editor/stream", "/api/editor/preview.png", "/api/editor/export":
				return true
			default:
				return false
			}
		},
	}))
	s.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			switch c.Path() {
			case "/api/editor/stream",
				"/api/editor/preview.png",
				"/api/editor/parameter/drag",
				"/api/editor/rotation/drag":
				return true
			default:
				return false
			}
		},
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  false,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"remote_ip", v.RemoteIP,
				"request_id", v.RequestID,
			}
			if id := ctxkeys.Workspace(c.Request().Context()); id != "" {
				fields = append(fields, "workspace", id)
			}
			if v.Error != nil {
				fields = append(fields, "error", v.Error)
			}
			slog.Info("request", fields...)
			return nil
		},
	}))

	return nil
}

// bodyLimit converts the upload cap into echo's limit syntax, leaving room
// for the multipart envelope.
func bodyLimit(maxUpload int64) string {
	const envelope = 1 << 20
	if maxUpload <= 0 {
		return "2M"
	}
	return formatLimit(maxUpload + envelope)
}

// workspaceMiddleware resolves the browser's workspace from its session
// cookie, issuing a new one on first visit.
func (s *Webserver) workspaceMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, created, err := s.sessionManager.EnsureWorkspace(c.Response().Writer, c.Request())
		if err != nil {
			slog.Error("failed to issue session", "error", err)
			return common.ErrInternal("session unavailable")
		}

		ws, err := s.hub.GetOrCreate(id)
		if err != nil {
			return common.EditorError(err)
		}
		if created {
			slog.Info("workspace issued", "workspace", id, "remote_ip", c.RealIP())
		}

		c.Set(common.WorkspaceContextKey, ws)
		ctx := context.WithValue(c.Request().Context(), ctxkeys.WorkspaceID, id)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

func (s *Webserver) registerRoutes() error {
	apiGroup := s.Group("/api/editor", s.workspaceMiddleware)
	apiGroup.POST("/image", editor_api.HandleUpload(s.conf.ImageLimits()))
	apiGroup.GET("/stream", editor_api.HandleStream(s.hub))

	apiGroup.POST("/parameter/select", editor_api.HandleSelectParameter())
	apiGroup.POST("/parameter/drag", editor_api.HandleDragParameter())
	apiGroup.POST("/parameter/commit", editor_api.HandleCommitParameter())

	apiGroup.POST("/rotation/drag", editor_api.HandleDragRotation())
	apiGroup.POST("/rotation/commit", editor_api.HandleCommitRotation())
	apiGroup.POST("/rotate/:direction", editor_api.HandleRotate())
	apiGroup.POST("/flip/:axis", editor_api.HandleFlip())

	apiGroup.POST("/reset", editor_api.HandleReset())
	apiGroup.POST("/undo", editor_api.HandleUndo())
	apiGroup.POST("/redo", editor_api.HandleRedo())
	apiGroup.POST("/history/:index", editor_api.HandleJump())

	apiGroup.GET("/preview.png", editor_api.HandlePreview())
	apiGroup.GET("/export", editor_api.HandleExport(s.conf.Export(), s.conf.ExportQuality))
	apiGroup.GET("/help", editor_api.HandleHelp(s.help))

	// Health check
	s.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	// Static file serving
	s.GET(StaticPrefix+"*", s.staticCache.ServeStaticFile())

	assets := templates.Assets{
		Stylesheet: s.staticCache.URL("dist/editor.css"),
		Script:     s.staticCache.URL("dist/editor.js"),
	}
	s.GET("/", content.HandleEditorPage(assets), s.workspaceMiddleware)

	return nil
}
