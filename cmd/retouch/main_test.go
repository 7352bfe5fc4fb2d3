package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/pkg/editstate"
	"thirdcoast.systems/retouch/pkg/export"
	"thirdcoast.systems/retouch/pkg/filters"
)

func TestOutputFormat(t *testing.T) {
	f, err := outputFormat("", "out.png")
	require.NoError(t, err)
	require.Equal(t, export.PNG, f)

	f, err = outputFormat("", "out.webp")
	require.NoError(t, err)
	require.Equal(t, export.JPEG, f)

	f, err = outputFormat("png", "out.jpg")
	require.NoError(t, err)
	require.Equal(t, export.PNG, f)

	_, err = outputFormat("tga", "")
	require.Error(t, err)
}

func TestFormatHistory(t *testing.T) {
	out := formatHistory(editor.View{History: []editor.HistoryItem{
		{Index: 0, Label: editstate.LabelOriginal},
		{Index: 1, Label: "Flip H", Current: true},
	}})
	require.Contains(t, out, "History")
	require.Contains(t, out, editstate.LabelOriginal)
	require.Contains(t, out, "Flip H")
	require.Contains(t, out, ">")
}

func TestFormatCatalog(t *testing.T) {
	out := formatCatalog(append(filters.Catalog(), filters.RotationSlider()))
	for _, key := range []string{"brightness", "saturation", "inversion", "grayscale", "sepia", "blur", "rotation"} {
		require.Contains(t, out, key)
	}
	require.Contains(t, out, "0px..20px")
}

func TestApply(t *testing.T) {
	dir := t.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for i := range src.Pix {
		src.Pix[i] = 180
	}
	src.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))
	imgPath := filepath.Join(dir, "sample photo.png")
	require.NoError(t, os.WriteFile(imgPath, buf.Bytes(), 0o644))

	recipePath := filepath.Join(dir, "warm.toml")
	require.NoError(t, os.WriteFile(recipePath, []byte(`
name = "warm"

[[step]]
action = "set"
parameter = "sepia"
value = 60.0

[[step]]
action = "rotate"
direction = "left"
`), 0o644))

	cmd := newApplyCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--image", imgPath, "--recipe", recipePath, "--format", "png"})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	written := filepath.Join(dir, "sample-photo-edited.png")
	f, err := os.Open(written)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 6, 4), img.Bounds())

	require.Contains(t, out.String(), "Sepia: 60%")
	require.Contains(t, out.String(), "Rotate 270deg")
	require.Contains(t, out.String(), written)
}

func TestApply_MissingRecipe(t *testing.T) {
	cmd := newApplyCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--image", "nope.png", "--recipe", filepath.Join(t.TempDir(), "missing.toml")})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}
