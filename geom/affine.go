// SPDX-License-Identifier: Unlicense OR MIT

package geom

import "math"

// Affine2D is a 2D affine transformation matrix. The zero value
// represents the identity transform, so it doubles as the "no
// transform yet" state a freshly created graphics item starts in.
// Fields hold the deviation of the represented matrix
//
//	1+a   b    e
//	 c   1+d   f
//	 0    0    1
//
// from identity, not the matrix elements themselves.
type Affine2D struct {
	a, b, c, d, e, f float32
}

// Identity2D returns the identity transform.
func Identity2D() Affine2D {
	return Affine2D{}
}

// NewAffine2D returns the transform represented by the matrix
//
//	a b e
//	c d f
func NewAffine2D(a, b, c, d, e, f float32) Affine2D {
	return Affine2D{a: a - 1, b: b, c: c, d: d - 1, e: e, f: f}
}

// Offset returns Identity2D().Offset(p).
func Offset(p Point) Affine2D {
	return Identity2D().Offset(p)
}

// Scale returns Identity2D().Scale(origin, factor).
func Scale(origin, factor Point) Affine2D {
	return Identity2D().Scale(origin, factor)
}

// Rotate returns Identity2D().Rotate(origin, radians).
func Rotate(origin Point, radians float32) Affine2D {
	return Identity2D().Rotate(origin, radians)
}

// IsIdentity reports whether t is the identity transform.
func (t Affine2D) IsIdentity() bool {
	return t == Identity2D()
}

// Elems returns the matrix elements in row-major order (a b e / c d f).
func (t Affine2D) Elems() (a, b, e, c, d, f float32) {
	return 1 + t.a, t.b, t.e, t.c, 1 + t.d, t.f
}

// Offset the transformation by p: points pass through every prior
// transform in t, then are translated by p.
func (t Affine2D) Offset(p Point) Affine2D {
	return t.Mul(NewAffine2D(1, 0, 0, 1, p.X, p.Y))
}

// Scale the transformation around origin by factor.
func (t Affine2D) Scale(origin, factor Point) Affine2D {
	if origin == (Point{}) {
		return t.Mul(NewAffine2D(factor.X, 0, 0, factor.Y, 0, 0))
	}
	return t.Offset(origin.Mul(-1)).Scale(Point{}, factor).Offset(origin)
}

// Rotate the transformation by radians around origin, clockwise
// (the coordinate space has y pointing down).
func (t Affine2D) Rotate(origin Point, radians float32) Affine2D {
	if origin == (Point{}) {
		sin64, cos64 := math.Sincos(float64(radians))
		sin, cos := float32(sin64), float32(cos64)
		return t.Mul(NewAffine2D(cos, -sin, sin, cos, 0, 0))
	}
	return t.Offset(origin.Mul(-1)).Rotate(Point{}, radians).Offset(origin)
}

// Shear the transformation around origin by the angles given in radians.
func (t Affine2D) Shear(origin Point, radiansX, radiansY float32) Affine2D {
	if origin == (Point{}) {
		tanX := float32(math.Tan(float64(radiansX)))
		tanY := float32(math.Tan(float64(radiansY)))
		return t.Mul(NewAffine2D(1, tanX, tanY, 1, 0, 0))
	}
	return t.Offset(origin.Mul(-1)).Shear(Point{}, radiansX, radiansY).Offset(origin)
}

// Mul returns t composed with s: the resulting transform applies t
// first, then s. That is, t.Mul(s).Transform(p) == s.Transform(t.Transform(p)).
func (t Affine2D) Mul(s Affine2D) Affine2D {
	ta, tb, te, tc, td, tf := t.Elems()
	sa, sb, se, sc, sd, sf := s.Elems()
	return NewAffine2D(
		sa*ta+sb*tc, sa*tb+sb*td,
		sc*ta+sd*tc, sc*tb+sd*td,
		sa*te+sb*tf+se, sc*te+sd*tf+sf,
	)
}

// Invert returns the inverse transform of t, or the identity if t
// is singular.
func (t Affine2D) Invert() Affine2D {
	a, b, e, c, d, f := t.Elems()
	det := a*d - b*c
	if det == 0 {
		return Identity2D()
	}
	id := 1 / det
	ia := d * id
	ib := -b * id
	ic := -c * id
	idd := a * id
	ie := -(e*ia + f*ib)
	iff := -(e*ic + f*idd)
	return NewAffine2D(ia, ib, ic, idd, ie, iff)
}

// Transform applies t to p.
func (t Affine2D) Transform(p Point) Point {
	a, b, e, c, d, f := t.Elems()
	return Point{
		X: a*p.X + b*p.Y + e,
		Y: c*p.X + d*p.Y + f,
	}
}

// TransformRect applies t to every corner of r and returns the
// axis-aligned bounding rectangle of the result.
func (t Affine2D) TransformRect(r Rectangle) Rectangle {
	pts := [4]Point{
		t.Transform(Point{X: r.Min.X, Y: r.Min.Y}),
		t.Transform(Point{X: r.Max.X, Y: r.Min.Y}),
		t.Transform(Point{X: r.Max.X, Y: r.Max.Y}),
		t.Transform(Point{X: r.Min.X, Y: r.Max.Y}),
	}
	out := Rectangle{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		if p.X < out.Min.X {
			out.Min.X = p.X
		}
		if p.Y < out.Min.Y {
			out.Min.Y = p.Y
		}
		if p.X > out.Max.X {
			out.Max.X = p.X
		}
		if p.Y > out.Max.Y {
			out.Max.Y = p.Y
		}
	}
	return out
}

// Translation returns the translation component of t.
func (t Affine2D) Translation() Point {
	return Point{X: t.e, Y: t.f}
}

// WithTranslation returns a copy of t with its translation component
// replaced by p; the linear part is left unchanged.
func (t Affine2D) WithTranslation(p Point) Affine2D {
	t.e, t.f = p.X, p.Y
	return t
}

// StripTranslation returns t with its translation component zeroed.
func (t Affine2D) StripTranslation() Affine2D {
	return t.WithTranslation(Point{})
}
