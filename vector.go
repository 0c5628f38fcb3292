// seehuhn.de/go/tracer - a spectral ray tracing core
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package tracer

import "math"

// Vector3 is a point or direction in object/world space.
type Vector3 struct {
	X, Y, Z float64
}

// Vector2 is a 2-D parameter-space or uv coordinate.
type Vector2 struct {
	X, Y float64
}

// Colour3 is a linear RGB colour; components are not clamped to [0,1].
type Colour3 struct {
	R, G, B float64
}

func (a Vector3) Add(b Vector3) Vector3 { return Vector3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vector3) Sub(b Vector3) Vector3 { return Vector3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vector3) Scale(s float64) Vector3 {
	return Vector3{a.X * s, a.Y * s, a.Z * s}
}
func (a Vector3) Neg() Vector3 { return Vector3{-a.X, -a.Y, -a.Z} }

func (a Vector3) Dot(b Vector3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

func (a Vector3) Cross(b Vector3) Vector3 {
	return Vector3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func (a Vector3) LengthSqr() float64 { return a.Dot(a) }
func (a Vector3) Length() float64    { return math.Sqrt(a.LengthSqr()) }

// Normalize returns a unit vector in the same direction as a.
// If a is the zero vector, the zero vector is returned unchanged.
func (a Vector3) Normalize() Vector3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Mul multiplies two vectors component-wise.
func (a Vector3) Mul(b Vector3) Vector3 {
	return Vector3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

func (a Vector2) Add(b Vector2) Vector2 { return Vector2{a.X + b.X, a.Y + b.Y} }
func (a Vector2) Sub(b Vector2) Vector2 { return Vector2{a.X - b.X, a.Y - b.Y} }
func (a Vector2) Scale(s float64) Vector2 {
	return Vector2{a.X * s, a.Y * s}
}

// Lerp2 linearly interpolates between two uv corners, matching the
// bilinear interpolation the bicubic patch uses for its (s,t) mapping.
func Lerp2(a, b Vector2, t float64) Vector2 {
	return Vector2{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

func (c Colour3) Add(d Colour3) Colour3 { return Colour3{c.R + d.R, c.G + d.G, c.B + d.B} }
func (c Colour3) Sub(d Colour3) Colour3 { return Colour3{c.R - d.R, c.G - d.G, c.B - d.B} }
func (c Colour3) Scale(s float64) Colour3 {
	return Colour3{c.R * s, c.G * s, c.B * s}
}
func (c Colour3) Mul(d Colour3) Colour3 { return Colour3{c.R * d.R, c.G * d.G, c.B * d.B} }

// MaxChannel returns the largest of the three channels, used by the
// media integrator's variance/threshold comparisons.
func (c Colour3) MaxChannel() float64 {
	m := c.R
	if c.G > m {
		m = c.G
	}
	if c.B > m {
		m = c.B
	}
	return m
}

// IsBlack reports whether all channels are exactly zero.
func (c Colour3) IsBlack() bool { return c.R == 0 && c.G == 0 && c.B == 0 }

// ExpNeg returns exp(-x) applied per channel, used for Beer's-law
// transmittance. exp(-0) == 1 holds exactly via math.Exp, so
// zero-density media never introduce NaN.
func ExpNeg(od Colour3) Colour3 {
	return Colour3{math.Exp(-od.R), math.Exp(-od.G), math.Exp(-od.B)}
}

// Matrix is an affine transform: p' = Linear*p + Translate. It
// generalizes the teacher's 2-D affine matrix.Matrix to three
// dimensions, storing the linear part as three row vectors so that
// Apply is a sequence of dot products rather than a 4x4 multiply with
// an always-(0,0,0,1) bottom row.
type Matrix struct {
	Row    [3]Vector3 // linear part, one row per output component
	Offset Vector3    // translation
}

// Identity is the identity affine transform.
var Identity = Matrix{
	Row: [3]Vector3{
		{X: 1},
		{Y: 1},
		{Z: 1},
	},
}

// Apply transforms a point by the affine map.
func (m Matrix) Apply(p Vector3) Vector3 {
	return Vector3{
		X: m.Row[0].Dot(p) + m.Offset.X,
		Y: m.Row[1].Dot(p) + m.Offset.Y,
		Z: m.Row[2].Dot(p) + m.Offset.Z,
	}
}

// ApplyVector transforms a direction (ignores the translation).
func (m Matrix) ApplyVector(v Vector3) Vector3 {
	return Vector3{
		X: m.Row[0].Dot(v),
		Y: m.Row[1].Dot(v),
		Z: m.Row[2].Dot(v),
	}
}

// Compose returns the affine map equivalent to applying m first, then n:
// Compose(m, n).Apply(p) == n.Apply(m.Apply(p)).
func Compose(m, n Matrix) Matrix {
	cols := [3]Vector3{
		{X: m.Row[0].X, Y: m.Row[1].X, Z: m.Row[2].X},
		{X: m.Row[0].Y, Y: m.Row[1].Y, Z: m.Row[2].Y},
		{X: m.Row[0].Z, Y: m.Row[1].Z, Z: m.Row[2].Z},
	}
	var out Matrix
	for i := 0; i < 3; i++ {
		row := n.Row[i]
		out.Row[i] = Vector3{
			X: row.Dot(cols[0]),
			Y: row.Dot(cols[1]),
			Z: row.Dot(cols[2]),
		}
	}
	out.Offset = n.ApplyVector(m.Offset).Add(n.Offset)
	return out
}

// Translate returns the affine map for a pure translation.
func Translate(offset Vector3) Matrix {
	m := Identity
	m.Offset = offset
	return m
}

// Scale3 returns the affine map for a non-uniform scale about the origin.
func Scale3(s Vector3) Matrix {
	return Matrix{Row: [3]Vector3{
		{X: s.X},
		{Y: s.Y},
		{Z: s.Z},
	}}
}

// Inverse computes the inverse of an affine map with a non-singular
// linear part, via the adjugate of the 3x3 linear block. The inverse
// is not cached: Lathe, SOR and Patch call this on every intersection,
// normal, uv and inside query.
func (m Matrix) Inverse() (Matrix, bool) {
	a, b, c := m.Row[0].X, m.Row[0].Y, m.Row[0].Z
	d, e, f := m.Row[1].X, m.Row[1].Y, m.Row[1].Z
	g, h, i := m.Row[2].X, m.Row[2].Y, m.Row[2].Z

	det := a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
	if det == 0 {
		return Matrix{}, false
	}
	invDet := 1 / det

	var inv Matrix
	inv.Row[0] = Vector3{
		X: (e*i - f*h) * invDet,
		Y: (c*h - b*i) * invDet,
		Z: (b*f - c*e) * invDet,
	}
	inv.Row[1] = Vector3{
		X: (f*g - d*i) * invDet,
		Y: (a*i - c*g) * invDet,
		Z: (c*d - a*f) * invDet,
	}
	inv.Row[2] = Vector3{
		X: (d*h - e*g) * invDet,
		Y: (b*g - a*h) * invDet,
		Z: (a*e - b*d) * invDet,
	}
	inv.Offset = inv.ApplyVector(m.Offset).Neg()
	return inv, true
}
