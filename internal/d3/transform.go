package d3

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform places a unit mesh: it scales along each axis, rotates and then
// translates. The zero value is the identity.
type Transform struct {
	// columns of the linear part with the identity subtracted, so that the
	// zero Transform is the identity.
	dx, dy, dz r3.Vec
	offset     r3.Vec
}

// ComposeTransform returns the transform scaling by scale, rotating by q
// and moving the origin to position.
func ComposeTransform(position, scale r3.Vec, q r3.Rotation) Transform {
	if q == (r3.Rotation{}) {
		q = r3.Rotation{Real: 1}
	}
	x2 := q.Imag + q.Imag
	y2 := q.Jmag + q.Jmag
	z2 := q.Kmag + q.Kmag
	xx := q.Imag * x2
	yy := q.Jmag * y2
	zz := q.Kmag * z2
	xy := q.Imag * y2
	xz := q.Imag * z2
	yz := q.Jmag * z2
	wx := q.Real * x2
	wy := q.Real * y2
	wz := q.Real * z2

	cx := r3.Scale(scale.X, r3.Vec{X: 1 - (yy + zz), Y: xy + wz, Z: xz - wy})
	cy := r3.Scale(scale.Y, r3.Vec{X: xy - wz, Y: 1 - (xx + zz), Z: yz + wx})
	cz := r3.Scale(scale.Z, r3.Vec{X: xz + wy, Y: yz - wx, Z: 1 - (xx + yy)})
	return Transform{
		dx:     r3.Sub(cx, r3.Vec{X: 1}),
		dy:     r3.Sub(cy, r3.Vec{Y: 1}),
		dz:     r3.Sub(cz, r3.Vec{Z: 1}),
		offset: position,
	}
}

// Apply transforms the point v.
func (t Transform) Apply(v r3.Vec) r3.Vec {
	p := r3.Add(v, t.offset)
	p = r3.Add(p, r3.Scale(v.X, t.dx))
	p = r3.Add(p, r3.Scale(v.Y, t.dy))
	return r3.Add(p, r3.Scale(v.Z, t.dz))
}

// RotationBetween returns the smallest rotation taking the direction of
// from onto the direction of to. Opposite directions are related by a half
// turn about an axis orthogonal to from.
func RotationBetween(from, to r3.Vec) r3.Rotation {
	const tol = 1e-12
	if r3.Norm(from) < tol || r3.Norm(to) < tol {
		return r3.Rotation{Real: 1}
	}
	f, g := r3.Unit(from), r3.Unit(to)
	axis := r3.Cross(f, g)
	sin, cos := r3.Norm(axis), r3.Dot(f, g)
	switch {
	case sin > tol:
		return r3.NewRotation(math.Atan2(sin, cos), r3.Unit(axis))
	case cos > 0:
		return r3.Rotation{Real: 1}
	}
	ortho := r3.Cross(f, r3.Vec{X: 1})
	if r3.Norm(ortho) < 0.1 {
		ortho = r3.Cross(f, r3.Vec{Y: 1})
	}
	return r3.NewRotation(math.Pi, r3.Unit(ortho))
}

// Inverse returns the rotation undoing q.
func Inverse(q r3.Rotation) r3.Rotation {
	return r3.Rotation(quat.Conj(quat.Number(q)))
}
