package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"thirdcoast.systems/retouch/pkg/export"
	"thirdcoast.systems/retouch/pkg/imagesrc"
	"thirdcoast.systems/retouch/pkg/utils/format"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int    `mapstructure:"WEBSERVER_PORT" validate:"min=1,max=65535"`
	SessionSecret string `mapstructure:"SESSION_SECRET" validate:"required,min=16"`

	// Uploads and rendering
	MaxUploadSize       string `mapstructure:"MAX_UPLOAD_BYTES" validate:"required"`
	MaxUploadBytes      int64  `mapstructure:"-"`
	MaxImagePixels      int64  `mapstructure:"MAX_IMAGE_PIXELS" validate:"min=1"`
	PreviewMaxDimension int    `mapstructure:"PREVIEW_MAX_DIMENSION" validate:"min=0,max=16384"`
	RenderWorkers       int    `mapstructure:"RENDER_WORKERS" validate:"min=0,max=256"`

	// Export
	ExportFormat  string `mapstructure:"EXPORT_FORMAT" validate:"oneof=png jpeg jpg"`
	ExportQuality int    `mapstructure:"EXPORT_QUALITY" validate:"min=1,max=100"`

	// Workspaces
	MaxWorkspaces        int           `mapstructure:"MAX_WORKSPACES" validate:"min=1"`
	MaxSubscribers       int           `mapstructure:"MAX_STREAM_SUBSCRIBERS" validate:"min=1"`
	WorkspaceIdleTimeout time.Duration `mapstructure:"WORKSPACE_IDLE_TIMEOUT" validate:"gt=0"`
}

// LogValue keeps the session secret out of logs.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("webserver_port", c.WebServerPort),
		slog.Bool("session_secret_set", c.SessionSecret != ""),
		slog.String("max_upload", format.Bytes(c.MaxUploadBytes)),
		slog.Int64("max_image_pixels", c.MaxImagePixels),
		slog.Int("preview_max_dimension", c.PreviewMaxDimension),
		slog.Int("render_workers", c.RenderWorkers),
		slog.String("export_format", c.ExportFormat),
		slog.Int("export_quality", c.ExportQuality),
		slog.Int("max_workspaces", c.MaxWorkspaces),
		slog.Int("max_stream_subscribers", c.MaxSubscribers),
		slog.Duration("workspace_idle_timeout", c.WorkspaceIdleTimeout),
	)
}

// Export returns the configured default export format.
func (c Config) Export() export.Format {
	f, err := export.ParseFormat(c.ExportFormat)
	if err != nil {
		return export.JPEG
	}
	return f
}

// ImageLimits returns the decode caps for uploads.
func (c Config) ImageLimits() imagesrc.Limits {
	return imagesrc.Limits{MaxBytes: c.MaxUploadBytes, MaxPixels: c.MaxImagePixels}
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	typ := reflect.TypeOf(c)
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag == "" || tag == "-" {
			continue
		}
		if err := viper.BindEnv(tag); err != nil {
			slog.Warn("bind env failed", "key", tag, "error", err)
		}
	}
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8080)
	viper.SetDefault("MAX_UPLOAD_BYTES", "32MiB")
	viper.SetDefault("MAX_IMAGE_PIXELS", imagesrc.DefaultMaxPixels)
	viper.SetDefault("PREVIEW_MAX_DIMENSION", 1600)
	viper.SetDefault("RENDER_WORKERS", 0)
	viper.SetDefault("EXPORT_FORMAT", string(export.JPEG))
	viper.SetDefault("EXPORT_QUALITY", export.DefaultQuality)
	viper.SetDefault("MAX_WORKSPACES", 64)
	viper.SetDefault("MAX_STREAM_SUBSCRIBERS", 8)
	viper.SetDefault("WORKSPACE_IDLE_TIMEOUT", 30*time.Minute)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	n, err := format.ParseBytes(cfg.MaxUploadSize)
	if err != nil {
		return nil, fmt.Errorf("validate config: MAX_UPLOAD_BYTES: %w", err)
	}
	if n <= 0 {
		return nil, fmt.Errorf("validate config: MAX_UPLOAD_BYTES must be positive")
	}
	cfg.MaxUploadBytes = n

	slog.InfoContext(ctx, "Loaded configuration", "config", cfg)
	return &cfg, nil
}
