package main

import (
	"encoding/json"
	"fmt"

	"github.com/soypat/dnacurve"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// summary is the printed result of a discretization.
type summary struct {
	Nucleotides int          `json:"nucleotides" yaml:"nucleotides"`
	Forward     int          `json:"forward" yaml:"forward"`
	Backward    int          `json:"backward" yaml:"backward"`
	Length      float64      `json:"length" yaml:"length"`
	Step        float64      `json:"step" yaml:"step"`
	FullTurn    float64      `json:"full_turn,omitempty" yaml:"full_turn,omitempty"`
	Closure     float64      `json:"closure_mismatch,omitempty" yaml:"closure_mismatch,omitempty"`
	Breakpoints []int        `json:"breakpoints,omitempty" yaml:"breakpoints,omitempty"`
	Axis        [][3]float64 `json:"axis,omitempty" yaml:"axis,omitempty"`
}

func summarize(d *dnacurve.Discretized, points bool) summary {
	s := summary{
		Nucleotides: d.Len(),
		Forward:     d.PointCountForward(),
		Backward:    d.PointCountBackward(),
		Length:      d.Length(),
		Step:        d.Step(),
		Closure:     d.ClosureMismatch(),
		Breakpoints: d.SegmentBreakpoints(),
	}
	if ft, ok := d.FullTurn(); ok {
		s.FullTurn = ft
	}
	if points {
		for _, p := range d.AxisPositions() {
			s.Axis = append(s.Axis, [3]float64{p.X, p.Y, p.Z})
		}
	}
	return s
}

var discretizeCmd = &cobra.Command{
	Use:   "discretize FILE",
	Short: "Print the nucleotide layout of a curve descriptor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadCurve(args[0])
		if err != nil {
			return err
		}
		points, _ := cmd.Flags().GetBool("points")
		format, _ := cmd.Flags().GetString("format")
		s := summarize(d, points)
		var b []byte
		switch format {
		case "json":
			b, err = json.MarshalIndent(s, "", "  ")
			b = append(b, '\n')
		case "yaml":
			b, err = yaml.Marshal(s)
		default:
			return fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	discretizeCmd.Flags().Bool("points", false, "include the axis points")
	discretizeCmd.Flags().StringP("format", "f", "json", "output format: json or yaml")
	rootCmd.AddCommand(discretizeCmd)
}
