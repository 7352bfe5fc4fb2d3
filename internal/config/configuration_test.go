package config

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"thirdcoast.systems/retouch/pkg/export"
	"thirdcoast.systems/retouch/pkg/imagesrc"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadConfig_Success_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SESSION_SECRET", testSecret)

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cfg)
	require.Equal(t, 8080, cfg.WebServerPort)
	require.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	require.Equal(t, int64(imagesrc.DefaultMaxPixels), cfg.MaxImagePixels)
	require.Equal(t, 1600, cfg.PreviewMaxDimension)
	require.Equal(t, 0, cfg.RenderWorkers)
	require.Equal(t, export.JPEG, cfg.Export())
	require.Equal(t, export.DefaultQuality, cfg.ExportQuality)
	require.Equal(t, 64, cfg.MaxWorkspaces)
	require.Equal(t, 8, cfg.MaxSubscribers)
	require.Equal(t, 30*time.Minute, cfg.WorkspaceIdleTimeout)
}

func TestLoadConfig_ValidationError(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("WEBSERVER_PORT", "8080")
	// Missing SESSION_SECRET

	cfg, err := LoadConfig(context.Background())
	require.Error(t, err)
	require.Nil(t, cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("WEBSERVER_PORT", "9090")
	t.Setenv("MAX_UPLOAD_BYTES", "5 MB")
	t.Setenv("EXPORT_FORMAT", "png")
	t.Setenv("EXPORT_QUALITY", "75")
	t.Setenv("WORKSPACE_IDLE_TIMEOUT", "90s")
	t.Setenv("RENDER_WORKERS", "3")
	t.Setenv("MAX_IMAGE_PIXELS", "1000000")

	cfg, err := LoadConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.WebServerPort)
	require.Equal(t, int64(5_000_000), cfg.MaxUploadBytes)
	require.Equal(t, export.PNG, cfg.Export())
	require.Equal(t, 75, cfg.ExportQuality)
	require.Equal(t, 90*time.Second, cfg.WorkspaceIdleTimeout)
	require.Equal(t, 3, cfg.RenderWorkers)
	require.Equal(t, imagesrc.Limits{MaxBytes: 5_000_000, MaxPixels: 1_000_000}, cfg.ImageLimits())
}

func TestLoadConfig_RejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"EXPORT_FORMAT":    "gif",
		"EXPORT_QUALITY":   "0",
		"MAX_UPLOAD_BYTES": "huge",
		"MAX_WORKSPACES":   "0",
		"MAX_IMAGE_PIXELS": "0",
		"SESSION_SECRET":   "too-short",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)

			t.Setenv("SESSION_SECRET", testSecret)
			t.Setenv(key, val)

			_, err := LoadConfig(context.Background())
			require.Error(t, err)
		})
	}
}

func TestConfig_LogValueHidesSecret(t *testing.T) {
	cfg := Config{SessionSecret: testSecret}
	require.NotContains(t, cfg.LogValue().String(), testSecret)
}
