package dnacurve

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/spatial/r3"
)

// vec32 is a single precision vector, the storage format of designs saved
// before placement switched to double precision.
type vec32 struct{ X, Y, Z float32 }

func toVec32(v r3.Vec) vec32 { return vec32{float32(v.X), float32(v.Y), float32(v.Z)} }

func (v vec32) add(w vec32) vec32 { return vec32{v.X + w.X, v.Y + w.Y, v.Z + w.Z} }

func (v vec32) scale(k float32) vec32 { return vec32{k * v.X, k * v.Y, k * v.Z} }

func (v vec32) vec() r3.Vec { return r3.Vec{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)} }

// legacyNucleotidePosition places nucleotides in single precision, ignoring
// the rise ratio and the period of the curve. Designs saved with legacy
// curves depend on its exact output, do not change it.
func (d *Discretized) legacyNucleotidePosition(n int, forward bool, theta float64, hp HelixParameters) (r3.Vec, bool) {
	idx, ok := d.IdxConversion(n)
	if !ok {
		return r3.Vec{}, false
	}
	pos, frame := d.positionsForward[idx], d.framesForward[idx]
	if !forward {
		pos, frame = d.positionsBackward[idx], d.framesBackward[idx]
	}
	r := float32(hp.HelixRadius)
	sin, cos := math32.Sincos(float32(theta))
	x := toVec32(frame.X).scale(-cos * r)
	y := toVec32(frame.Y).scale(sin * r)
	p := toVec32(pos).add(x.add(y))
	return p.vec(), true
}
