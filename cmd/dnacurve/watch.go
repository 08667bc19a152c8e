package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-export the STL mesh of a descriptor every time it changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		out, _ := cmd.Flags().GetString("output")
		return watchSTL(ctx, cmd, args[0], outputPath(out, args[0], ".stl"))
	},
}

func init() {
	watchCmd.Flags().StringP("output", "o", "", "STL file (default FILE.stl in the output directory)")
	rootCmd.AddCommand(watchCmd)
}

// watchSTL exports input once and again after each change until ctx is done.
// Invalid intermediate versions of the file are logged and skipped.
func watchSTL(ctx context.Context, cmd *cobra.Command, input, output string) error {
	w, err := watch.New(input, cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()
	export := func() {
		if err := exportSTL(cmd, input, output, ""); err != nil {
			dnacurve.Logger().Error("export failed", "file", input, "err", err)
		}
	}
	export()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Changes:
			export()
		case err := <-w.Errors:
			dnacurve.Logger().Warn("watch", "err", err)
		}
	}
}
