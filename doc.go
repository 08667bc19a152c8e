// Package dnacurve turns parametric curves into discretized DNA helix axes.
//
// A curve is anything implementing [Curve]: a position function over a
// parameter t and a description of its domain. Every other property of the
// curve is queried through small optional capability interfaces
// ([Speeder], [Abscissaer], [Periodic], [Surfacer], ...). When a curve does not
// provide a capability the package-level function of the same name ([Speed],
// [Curvature], [TMin], ...) falls back to a numeric default.
//
// [Discretize] walks a curve and produces a [Discretized] curve: nucleotide
// positions spaced by the helix rise, an orthonormal [Frame] transported along
// the curve at each of them and a curvature profile. Nucleotide positions are
// then queried by signed offset from the nucleotide at t=0:
//
//	hp := dnacurve.GearyDNA
//	d := dnacurve.Discretize(bezier, hp)
//	p, ok := d.NucleotidePosition(12, true, hp.Theta(12, true, 0), hp)
//
// The descriptor sub-package holds the serializable, possibly symbolic,
// description of a curve and the pipeline that resolves it into a [Curve].
package dnacurve
