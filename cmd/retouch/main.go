// Command retouch applies edit recipes to images from the command line using
// the same controller and renderer as the web editor.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var verbose bool
	rootCmd := &cobra.Command{
		Use:   "retouch",
		Short: "Apply image edit recipes",
		Long: `retouch replays a TOML edit recipe (filters, rotations, flips and
history moves) against an image and writes the result.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every history change")

	rootCmd.AddCommand(newApplyCmd(), newParamsCmd())

	if err := fang.Execute(ctx, rootCmd,
		fang.WithVersion(version),
		fang.WithErrorHandler(func(w io.Writer, styles fang.Styles, err error) {
			_, _ = fmt.Fprintln(w, errorStyle.Render("error: ")+err.Error())
		}),
	); err != nil {
		os.Exit(1)
	}
}
