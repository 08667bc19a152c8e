// Package profile plots quantities sampled along discretized curves, such
// as the curvature at every nucleotide, to inspect a design before export.
package profile

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/soypat/dnacurve"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Quantity is a scalar sampled at every nucleotide of a curve.
type Quantity int

const (
	// Curvature of the curve at each nucleotide, in nm⁻¹.
	Curvature Quantity = iota
	// Spacing is the distance from each axis point to the next, in nm.
	Spacing
)

func (q Quantity) String() string {
	switch q {
	case Curvature:
		return "curvature"
	case Spacing:
		return "spacing"
	}
	return fmt.Sprintf("Quantity(%d)", int(q))
}

func (q Quantity) unit() string {
	if q == Curvature {
		return "curvature (1/nm)"
	}
	return "axis spacing (nm)"
}

// ParseQuantity parses the name of a Quantity.
func ParseQuantity(s string) (Quantity, error) {
	switch strings.ToLower(s) {
	case "curvature":
		return Curvature, nil
	case "spacing":
		return Spacing, nil
	}
	return 0, fmt.Errorf("unknown profile quantity %q", s)
}

// Series is a discretized curve drawn as one line.
type Series struct {
	Name  string
	Curve *dnacurve.Discretized
}

// Sample returns q at every displayable nucleotide of d against the
// nucleotide offset.
func Sample(d *dnacurve.Discretized, q Quantity) plotter.XYs {
	lo, hi := d.Range()
	xys := make(plotter.XYs, 0, max(hi-lo+1, 0))
	for n := lo; n <= hi; n++ {
		var y float64
		var ok bool
		switch q {
		case Curvature:
			y, ok = d.CurvatureAt(n)
		case Spacing:
			var a, b r3.Vec
			a, ok = d.AxisPosition(n)
			if ok {
				b, ok = d.AxisPosition(n + 1)
			}
			y = r3.Norm(r3.Sub(b, a))
		}
		if ok {
			xys = append(xys, plotter.XY{X: float64(n), Y: y})
		}
	}
	return xys
}

// New plots q for every series. The segment breakpoints of the first series
// are drawn as vertical dashed lines.
func New(q Quantity, series ...Series) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, errors.New("profile needs at least one series")
	}
	p := plot.New()
	p.Title.Text = q.String() + " profile"
	p.X.Label.Text = "nucleotide"
	p.Y.Label.Text = q.unit()
	p.Add(plotter.NewGrid())
	for i, s := range series {
		xys := Sample(s.Curve, q)
		if len(xys) == 0 {
			dnacurve.Logger().Warn("empty profile series", "name", s.Name, "quantity", q)
			continue
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("series %q: %w", s.Name, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}
	if err := addBreakpoints(p, series[0].Curve); err != nil {
		return nil, err
	}
	return p, nil
}

func addBreakpoints(p *plot.Plot, d *dnacurve.Discretized) error {
	for _, n := range d.SegmentBreakpoints() {
		x := float64(n)
		line, err := plotter.NewLine(plotter.XYs{{X: x, Y: p.Y.Min}, {X: x, Y: p.Y.Max}})
		if err != nil {
			return err
		}
		line.Color = color.Gray{Y: 128}
		line.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		p.Add(line)
	}
	return nil
}

// Write encodes p as an image of the given format, such as "png" or "svg".
func Write(w io.Writer, p *plot.Plot, width, height vg.Length, format string) error {
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
