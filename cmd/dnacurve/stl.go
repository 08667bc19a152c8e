package main

import (
	"fmt"
	"os"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/render"
	"github.com/spf13/cobra"
)

var stlCmd = &cobra.Command{
	Use:   "stl FILE",
	Short: "Export the nucleotides and axis of a curve as a binary STL mesh",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		instances, _ := cmd.Flags().GetString("instances")
		return exportSTL(cmd, args[0], outputPath(out, args[0], ".stl"), instances)
	},
}

func init() {
	stlCmd.Flags().StringP("output", "o", "", "STL file (default FILE.stl in the output directory)")
	stlCmd.Flags().String("instances", "", "also write float32 sphere and tube instances to this file")
	rootCmd.AddCommand(stlCmd)
}

func exportSTL(cmd *cobra.Command, input, output, instances string) error {
	d, err := loadCurve(input)
	if err != nil {
		return err
	}
	style := cfg.Style()
	model := render.NewModel(d, hp, style)
	if err := render.CreateSTL(output, model.Renderer(style.Resolution)); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	box := model.Bounds()
	dnacurve.Logger().Info("wrote mesh", "file", output, "spheres", len(model.Spheres), "tubes", len(model.Tubes), "min", box.Min, "max", box.Max)
	fmt.Fprintln(cmd.OutOrStdout(), output)
	if instances == "" {
		return nil
	}
	f, err := os.Create(instances)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := model.Instances().WriteTo(f); err != nil {
		return fmt.Errorf("writing %s: %w", instances, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), instances)
	return f.Close()
}
