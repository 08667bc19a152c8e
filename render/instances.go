package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/soypat/dnacurve/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// SphereInstance places a unit sphere.
type SphereInstance struct {
	Center [3]float32
	Radius float32
}

// TubeInstance places a unit tube lying along the X axis from the origin.
// Prev and Next are the neighbouring segment directions expressed in the
// tube's own frame.
type TubeInstance struct {
	Position [3]float32
	Rotation [4]float32 // Real, Imag, Jmag, Kmag
	Radius   float32
	Length   float32
	Prev     [3]float32
	Next     [3]float32
}

// Instances is the instanced form of a Model, ready to be uploaded to a
// GPU vertex buffer.
type Instances struct {
	Spheres []SphereInstance
	Tubes   []TubeInstance
}

// Instances converts m to single precision instances.
func (m Model) Instances() Instances {
	inst := Instances{
		Spheres: make([]SphereInstance, len(m.Spheres)),
		Tubes:   make([]TubeInstance, len(m.Tubes)),
	}
	for i, s := range m.Spheres {
		inst.Spheres[i] = SphereInstance{Center: to3F32(s.Center), Radius: float32(s.Radius)}
	}
	for i, t := range m.Tubes {
		dir := r3.Sub(t.To, t.From)
		rot := d3.RotationBetween(r3.Vec{X: 1}, dir)
		inv := d3.Inverse(rot)
		inst.Tubes[i] = TubeInstance{
			Position: to3F32(t.From),
			Rotation: [4]float32{float32(rot.Real), float32(rot.Imag), float32(rot.Jmag), float32(rot.Kmag)},
			Radius:   float32(t.Radius),
			Length:   float32(r3.Norm(dir)),
			Prev:     to3F32(inv.Rotate(t.Prev)),
			Next:     to3F32(inv.Rotate(t.Next)),
		}
	}
	return inst
}

// Validate reports the first instance holding a NaN or infinite value.
func (inst Instances) Validate() error {
	for i, s := range inst.Spheres {
		if bad3F32(s.Center) || math32.IsNaN(s.Radius) || math32.IsInf(s.Radius, 0) {
			return fmt.Errorf("sphere %d: inf/NaN value", i)
		}
	}
	for i, t := range inst.Tubes {
		q := t.Rotation
		if bad3F32(t.Position) || bad3F32(t.Prev) || bad3F32(t.Next) ||
			bad3F32([3]float32{q[1], q[2], q[3]}) || math32.IsNaN(q[0]) ||
			math32.IsNaN(t.Radius) || math32.IsNaN(t.Length) || math32.IsInf(t.Length, 0) {
			return fmt.Errorf("tube %d: inf/NaN value", i)
		}
	}
	return nil
}

// WriteTo writes the instance counts followed by the sphere and tube
// records, little endian.
func (inst Instances) WriteTo(w io.Writer) (int64, error) {
	if err := inst.Validate(); err != nil {
		return 0, err
	}
	cw := &countingWriter{w: w}
	counts := [2]uint32{uint32(len(inst.Spheres)), uint32(len(inst.Tubes))}
	err := errors.Join(
		binary.Write(cw, binary.LittleEndian, counts),
		binary.Write(cw, binary.LittleEndian, inst.Spheres),
		binary.Write(cw, binary.LittleEndian, inst.Tubes),
	)
	return cw.n, err
}

// ReadInstances reads instances written by WriteTo.
func ReadInstances(r io.Reader) (Instances, error) {
	var counts [2]uint32
	if err := binary.Read(r, binary.LittleEndian, &counts); err != nil {
		return Instances{}, fmt.Errorf("instance header: %w", err)
	}
	inst := Instances{
		Spheres: make([]SphereInstance, counts[0]),
		Tubes:   make([]TubeInstance, counts[1]),
	}
	if err := binary.Read(r, binary.LittleEndian, inst.Spheres); err != nil {
		return Instances{}, fmt.Errorf("sphere instances: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, inst.Tubes); err != nil {
		return Instances{}, fmt.Errorf("tube instances: %w", err)
	}
	return inst, inst.Validate()
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
