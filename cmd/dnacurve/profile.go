package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/soypat/dnacurve/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

var profileCmd = &cobra.Command{
	Use:   "profile FILE...",
	Short: "Plot the curvature or axis spacing of curves against the nucleotide offset",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("quantity")
		q, err := profile.ParseQuantity(name)
		if err != nil {
			return err
		}
		series := make([]profile.Series, len(args))
		for i, path := range args {
			d, err := loadCurve(path)
			if err != nil {
				return err
			}
			series[i] = profile.Series{Name: filepath.Base(path), Curve: d}
		}
		p, err := profile.New(q, series...)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		out = outputPath(out, args[0], "."+q.String()+"."+cfg.Profile.Format)
		format := strings.TrimPrefix(filepath.Ext(out), ".")
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		width := vg.Length(cfg.Profile.Width) * vg.Centimeter
		height := vg.Length(cfg.Profile.Height) * vg.Centimeter
		if err := profile.Write(f, p, width, height, format); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return f.Close()
	},
}

func init() {
	profileCmd.Flags().StringP("quantity", "q", "curvature", "plotted quantity: curvature or spacing")
	profileCmd.Flags().StringP("output", "o", "", "image file, format from its extension")
	rootCmd.AddCommand(profileCmd)
}
