package main

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
	"thirdcoast.systems/retouch/internal/editor"
	"thirdcoast.systems/retouch/internal/recipe"
	"thirdcoast.systems/retouch/pkg/export"
	"thirdcoast.systems/retouch/pkg/imagesrc"
	"thirdcoast.systems/retouch/pkg/render"
	"thirdcoast.systems/retouch/pkg/utils/format"
)

type applyOptions struct {
	image   string
	recipe  string
	out     string
	format  string
	quality int
	maxSize   string
	maxPixels int64
	workers   int
	history bool
}

func newApplyCmd() *cobra.Command {
	var opts applyOptions
	cmd := &cobra.Command{
		Use:   "apply --image <file> --recipe <file.toml> [--out <file>]",
		Short: "Replay a recipe against an image and write the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.image, "image", "i", "", "source image")
	f.StringVarP(&opts.recipe, "recipe", "r", "", "TOML recipe to replay")
	f.StringVarP(&opts.out, "out", "o", "", "output file (default <image>-edited.<ext> next to the source)")
	f.StringVarP(&opts.format, "format", "f", "", "png or jpeg (default from --out, else jpeg)")
	f.IntVarP(&opts.quality, "quality", "q", export.DefaultQuality, "JPEG quality 1-100")
	f.StringVar(&opts.maxSize, "max-size", "32MiB", "largest accepted source file")
	f.Int64Var(&opts.maxPixels, "max-pixels", imagesrc.DefaultMaxPixels, "largest accepted width*height")
	f.IntVar(&opts.workers, "workers", 0, "render workers (0 uses every CPU)")
	f.BoolVar(&opts.history, "history", true, "print the resulting history")
	_ = cmd.MarkFlagRequired("image")
	_ = cmd.MarkFlagRequired("recipe")
	return cmd
}

func runApply(cmd *cobra.Command, opts applyOptions) error {
	ctx := cmd.Context()

	maxBytes, err := format.ParseBytes(opts.maxSize)
	if err != nil {
		return fmt.Errorf("--max-size: %w", err)
	}
	outFormat, err := outputFormat(opts.format, opts.out)
	if err != nil {
		return err
	}
	out := opts.out
	if out == "" {
		out = filepath.Join(filepath.Dir(opts.image), export.Filename(opts.image, outFormat))
	}

	rec, err := recipe.Load(opts.recipe)
	if err != nil {
		return err
	}

	f, err := os.Open(opts.image)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	src, err := imagesrc.Decode(f, filepath.Base(opts.image), imagesrc.Limits{MaxBytes: maxBytes, MaxPixels: opts.maxPixels})
	f.Close()
	if err != nil {
		return fmt.Errorf("%s: %w", opts.image, err)
	}

	ctrl := editor.New(editor.Options{Renderer: render.NewCompositor(opts.workers)})
	if err := ctrl.LoadImage(ctx, src); err != nil {
		return err
	}
	if err := rec.Replay(ctx, ctrl); err != nil {
		return fmt.Errorf("recipe %s: %w", opts.recipe, err)
	}

	img, err := ctrl.Export(ctx)
	if err != nil {
		return err
	}
	if err := writeImage(out, img, outFormat, opts.quality); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.history {
		if _, err := lipgloss.Fprint(w, formatHistory(ctrl.View())); err != nil {
			return err
		}
	}
	_, err = lipgloss.Fprintln(w, dimStyle.Render("wrote ")+out+dimStyle.Render(" ("+format.Dimensions(src.Width, src.Height)+")"))
	return err
}

// outputFormat picks the export format from the flag, then the output
// extension, then JPEG.
func outputFormat(flag, out string) (export.Format, error) {
	if flag != "" {
		return export.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != "" {
		if f, err := export.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return export.JPEG, nil
}

// writeImage encodes img to a temporary file beside path and renames it into
// place, so a failed encode never leaves a truncated output.
func writeImage(path string, img image.Image, f export.Format, quality int) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".retouch-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := export.Encode(tmp, img, f, quality); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return os.Rename(tmp.Name(), path)
}
