package dnacurve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// epsilon is the norm below which a tangent is considered degenerate.
const epsilon = 1e-5

// Frame is a right handed orthonormal basis attached to a point of a curve.
// Z is the tangent of the curve, X and Y span the plane in which nucleotides
// are placed.
type Frame struct {
	X, Y, Z r3.Vec
}

// IdentityFrame is the world basis.
var IdentityFrame = Frame{
	X: r3.Vec{X: 1},
	Y: r3.Vec{Y: 1},
	Z: r3.Vec{Z: 1},
}

// PerpendicularBasis returns a frame whose Z axis is the direction of p.
// The X axis is seeded with whichever of world X and Y is less aligned with p. A degenerate
// p yields IdentityFrame.
func PerpendicularBasis(p r3.Vec) Frame {
	if r3.Norm(p) < epsilon {
		return IdentityFrame
	}
	z := r3.Unit(p)
	x := r3.Vec{X: 1}
	if math.Abs(z.X) > math.Abs(z.Y) {
		x = r3.Vec{Y: 1}
	}
	y := r3.Unit(r3.Cross(z, x))
	x = r3.Unit(r3.Cross(y, z))
	return Frame{X: x, Y: y, Z: z}
}

// Apply expresses v, given in frame coordinates, in world coordinates.
func (f Frame) Apply(v r3.Vec) r3.Vec {
	return r3.Add(r3.Add(r3.Scale(v.X, f.X), r3.Scale(v.Y, f.Y)), r3.Scale(v.Z, f.Z))
}

// Coordinates expresses the world vector v in frame coordinates.
func (f Frame) Coordinates(v r3.Vec) r3.Vec {
	return r3.Vec{X: r3.Dot(v, f.X), Y: r3.Dot(v, f.Y), Z: r3.Dot(v, f.Z)}
}

// Mat returns the rotation matrix whose columns are X, Y and Z.
func (f Frame) Mat() *r3.Mat {
	return r3.NewMat([]float64{
		f.X.X, f.Y.X, f.Z.X,
		f.X.Y, f.Y.Y, f.Z.Y,
		f.X.Z, f.Y.Z, f.Z.Z,
	})
}

// Rotate applies the rotation r to every axis of f.
func (f Frame) Rotate(r r3.Rotation) Frame {
	return Frame{X: r.Rotate(f.X), Y: r.Rotate(f.Y), Z: r.Rotate(f.Z)}
}

// RotateAboutTangent turns f by angle radians around its Z axis.
func (f Frame) RotateAboutTangent(angle float64) Frame {
	if angle == 0 {
		return f
	}
	return f.Rotate(r3.NewRotation(angle, f.Z))
}

// AngleTo returns the angle of the rotation about the tangent that brings
// the X axis of f onto the X axis of g, assuming both share their tangent.
func (f Frame) AngleTo(g Frame) float64 {
	return math.Atan2(r3.Dot(g.X, f.Y), r3.Dot(g.X, f.X))
}

// Transport moves f so that its Z axis becomes the direction of tangent,
// using the smallest rotation. The frame is re-orthonormalized so that
// rounding errors do not accumulate along a long walk.
func (f Frame) Transport(tangent r3.Vec) Frame {
	if r3.Norm(tangent) < epsilon {
		return f
	}
	z := r3.Unit(tangent)
	axis := r3.Cross(f.Z, z)
	sin := r3.Norm(axis)
	cos := r3.Dot(f.Z, z)
	x := f.X
	if sin > 1e-12 {
		x = r3.NewRotation(math.Atan2(sin, cos), r3.Unit(axis)).Rotate(x)
	} else if cos < 0 {
		// Half turn, any axis perpendicular to the tangent will do.
		x = r3.Scale(-1, x)
	}
	x = r3.Sub(x, r3.Scale(r3.Dot(x, z), z))
	if r3.Norm(x) < epsilon {
		return PerpendicularBasis(z)
	}
	x = r3.Unit(x)
	return Frame{X: x, Y: r3.Cross(z, x), Z: z}
}

// surfaceFrame builds a frame with Z along tangent and Y along the part of
// the surface normal that is orthogonal to it.
func surfaceFrame(tangent, normal r3.Vec) Frame {
	if r3.Norm(tangent) < epsilon {
		return IdentityFrame
	}
	z := r3.Unit(tangent)
	y := r3.Sub(normal, r3.Scale(r3.Dot(normal, z), z))
	if r3.Norm(y) < epsilon {
		return PerpendicularBasis(z)
	}
	y = r3.Unit(y)
	return Frame{X: r3.Cross(y, z), Y: y, Z: z}
}
