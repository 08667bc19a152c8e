package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/soypat/dnacurve/pick"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/spatial/r3"
)

var pickCmd = &cobra.Command{
	Use:   "pick FILE X,Y,Z",
	Short: "List the nucleotides closest to a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		at, err := parseVec(args[1])
		if err != nil {
			return err
		}
		d, err := loadCurve(args[0])
		if err != nil {
			return err
		}
		k, _ := cmd.Flags().GetInt("count")
		radius, _ := cmd.Flags().GetFloat64("radius")
		ix := pick.New(hp, pick.Helix{Curve: d, Roll: cfg.Render.Roll})
		var hits []pick.Hit
		if radius > 0 {
			hits = ix.Within(at, radius)
		} else {
			hits = ix.NearestN(at, k)
		}
		w := cmd.OutOrStdout()
		for _, h := range hits {
			strand := "forward"
			if !h.Forward {
				strand = "backward"
			}
			fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f %.4f %.4f\n", h.Offset, strand, h.Distance, h.Position.X, h.Position.Y, h.Position.Z)
		}
		return nil
	},
}

func init() {
	pickCmd.Flags().IntP("count", "k", 1, "number of nucleotides listed")
	pickCmd.Flags().Float64P("radius", "r", 0, "list every nucleotide within this distance instead")
	rootCmd.AddCommand(pickCmd)
}

func parseVec(s string) (r3.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return r3.Vec{}, fmt.Errorf("point %q: want X,Y,Z", s)
	}
	var c [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("point %q: %w", s, err)
		}
		c[i] = v
	}
	return r3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}
