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

// SplineMode selects how Lathe profile points are converted to
// piecewise cubic segments, per spec.md 3/4.F.
type SplineMode int

const (
	SplineLinear SplineMode = iota
	SplineQuadratic
	SplineCubicCatmull
	SplineCubicBezier
)

// LatheSegment is one piecewise-cubic segment of a lathe profile:
// r(s) and y(s) each as cubic coefficients A s^3 + B s^2 + C s + D,
// per spec.md 3.
type LatheSegment struct {
	R [4]float64 // A,B,C,D for r(s)
	Y [4]float64 // A,B,C,D for y(s)
}

func evalCubic(c [4]float64, s float64) float64 {
	return ((c[0]*s+c[1])*s+c[2])*s + c[3]
}
func evalCubicDeriv(c [4]float64, s float64) float64 {
	return (3*c[0]*s+2*c[1])*s + c[2]
}

// Lathe is a surface of revolution defined by a piecewise cubic
// profile in (r,y), rotated about the Y axis, per spec.md 3/4.F.
type Lathe struct {
	Segments []LatheSegment
	Bound    *BCyl
	Inverted bool

	m Matrix
}

// NewLathe converts profile points (r,y pairs) into piecewise cubic
// segments according to mode and builds the shared BCyl from each
// segment's extremal r and y, per spec.md 3/4.F.
func NewLathe(points []Vector2, mode SplineMode) (*Lathe, error) {
	if len(points) < 2 {
		return nil, wrapf("NewLathe", ErrDegenerateProfile)
	}
	flat := true
	for _, p := range points[1:] {
		if p.Y != points[0].Y {
			flat = false
			break
		}
	}
	if flat {
		return nil, wrapf("NewLathe", ErrDegenerateProfile)
	}
	segs := make([]LatheSegment, 0, len(points)-1)
	for i := 0; i+1 < len(points); i++ {
		var p0, p1, p2, p3 Vector2
		switch mode {
		case SplineLinear, SplineQuadratic:
			p0, p1 = points[i], points[i+1]
		default:
			lo := max(i-1, 0)
			hi := min(i+2, len(points)-1)
			p0 = points[lo]
			p1 = points[i]
			p2 = points[i+1]
			p3 = points[hi]
		}
		seg := buildLatheSegment(mode, p0, p1, p2, p3)
		segs = append(segs, seg)
	}

	extents := make([]struct{ R1, R2, H1, H2 float64 }, len(segs))
	for i, seg := range segs {
		rmin, rmax := latheExtrema(seg.R)
		ymin, ymax := latheExtrema(seg.Y)
		extents[i] = struct{ R1, R2, H1, H2 float64 }{rmin, rmax, ymin, ymax}
	}

	return &Lathe{
		Segments: segs,
		Bound:    NewBCyl(extents),
		m:        Identity,
	}, nil
}

// buildLatheSegment derives cubic coefficients for one segment
// according to the chosen spline mode.
func buildLatheSegment(mode SplineMode, p0, p1, p2, p3 Vector2) LatheSegment {
	switch mode {
	case SplineLinear:
		return LatheSegment{
			R: [4]float64{0, 0, p1.X - p0.X, p0.X},
			Y: [4]float64{0, 0, p1.Y - p0.Y, p0.Y},
		}
	case SplineQuadratic:
		mid := Vector2{X: (p0.X + p1.X) / 2, Y: (p0.Y + p1.Y) / 2}
		return LatheSegment{
			R: [4]float64{0, p0.X - 2*mid.X + p1.X, 2 * (mid.X - p0.X), p0.X},
			Y: [4]float64{0, p0.Y - 2*mid.Y + p1.Y, 2 * (mid.Y - p0.Y), p0.Y},
		}
	case SplineCubicBezier:
		return LatheSegment{
			R: bezierCoeffs(p0.X, p1.X, p2.X, p3.X),
			Y: bezierCoeffs(p0.Y, p1.Y, p2.Y, p3.Y),
		}
	default: // SplineCubicCatmull
		return LatheSegment{
			R: catmullCoeffs(p0.X, p1.X, p2.X, p3.X),
			Y: catmullCoeffs(p0.Y, p1.Y, p2.Y, p3.Y),
		}
	}
}

// bezierCoeffs treats p0..p3 as the four Bezier control values for
// this segment and expands B(s) into power-basis coefficients.
func bezierCoeffs(p0, p1, p2, p3 float64) [4]float64 {
	return [4]float64{
		-p0 + 3*p1 - 3*p2 + p3,
		3*p0 - 6*p1 + 3*p2,
		-3*p0 + 3*p1,
		p0,
	}
}

// catmullCoeffs derives the Catmull-Rom segment between p1 and p2
// using p0 and p3 as tangent neighbors, expanded into power basis.
func catmullCoeffs(p0, p1, p2, p3 float64) [4]float64 {
	return [4]float64{
		-0.5*p0 + 1.5*p1 - 1.5*p2 + 0.5*p3,
		p0 - 2.5*p1 + 2*p2 - 0.5*p3,
		-0.5*p0 + 0.5*p2,
		p1,
	}
}

// latheExtrema finds the min/max of a cubic over [0,1] by evaluating
// the endpoints and any derivative roots inside (0,1).
func latheExtrema(c [4]float64) (float64, float64) {
	vals := []float64{evalCubic(c, 0), evalCubic(c, 1)}
	// derivative: 3A s^2 + 2B s + C = 0
	a, b, cc := 3*c[0], 2*c[1], c[2]
	if math.Abs(a) < 1e-15 {
		if cc != 0 {
			s := -cc / b
			if s > 0 && s < 1 {
				vals = append(vals, evalCubic(c, s))
			}
		}
	} else {
		disc := b*b - 4*a*cc
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, s := range []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if s > 0 && s < 1 {
					vals = append(vals, evalCubic(c, s))
				}
			}
		}
	}
	mn, mx := vals[0], vals[0]
	for _, v := range vals {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	return mn, mx
}

func (l *Lathe) AllIntersections(ctx *RenderContext, ray *Ray, stack *IntersectionStack) {
	inv, ok := l.m.Inverse()
	if !ok {
		return
	}
	obj := ray.TransformRaw(inv)

	hits := l.Bound.Intersect(ctx, obj.Origin, obj.Direction)
	bestT := math.Inf(1)
	for _, h := range hits {
		if h.Entry > bestT {
			break
		}
		seg := l.Segments[h.Segment]
		t, s, ok := l.intersectSegment(ctx, seg, obj.Origin, obj.Direction)
		if !ok || t <= 1e-4 {
			continue
		}
		if t < bestT {
			bestT = t
		}
		objPt := obj.At(t)
		worldPt := l.m.Apply(objPt)
		stack.Push(Intersection{
			Depth:  t,
			Point:  worldPt,
			Object: l,
			Int1:   h.Segment,
			Dbl1:   s,
		})
	}
}

// intersectSegment substitutes the cubic profile into the cylinder
// equation and eliminates t, producing a polynomial in the spline
// parameter s of degree 2/4/6 depending on the profile's r(s) degree,
// per spec.md 4.F. The |Dy|<eps special case solves a quadratic in t
// directly instead.
func (l *Lathe) intersectSegment(ctx *RenderContext, seg LatheSegment, origin, dir Vector3) (float64, float64, bool) {
	if math.Abs(dir.Y) < 1e-9 {
		return l.intersectHorizontal(seg, origin, dir)
	}

	// t = (y(s) - Py) / Dy ; substitute into (Px+t Dx)^2+(Pz+t Dz)^2 = r(s)^2
	// Build as a polynomial in s by expanding y(s) and r(s)^2 and doing
	// the division symbolically via a numeric root search on the
	// resulting polynomial coefficients (computed by evaluating the
	// implicit function at sample points and fitting is avoided in
	// favor of the direct algebraic expansion below).
	py, dy := origin.Y, dir.Y
	// f(s) = (Px + ((y(s)-Py)/Dy)*Dx)^2 + (Pz + ((y(s)-Py)/Dy)*Dz)^2 - r(s)^2
	// Multiply through by Dy^2 to clear the denominator:
	// g(s) = (Px*Dy + (y(s)-Py)*Dx)^2 + (Pz*Dy + (y(s)-Py)*Dz)^2 - r(s)^2*Dy^2
	yPoly := seg.Y
	yPoly[3] -= py // shift constant term by -Py, i.e. represent (y(s)-Py)

	// (y(s)-Py) is cubic in s; (Px*Dy + (y(s)-Py)*Dx) is cubic in s; squared -> degree 6
	lin1 := polyScaleAdd(yPoly, dir.X, origin.X*dy) // Px*Dy + (y(s)-Py)*Dx
	lin2 := polyScaleAdd(yPoly, dir.Z, origin.Z*dy)
	sq1 := polyMul3(lin1)
	sq2 := polyMul3(lin2)
	rsq := polySquareCubic(seg.R)
	rsqScaled := polyScale(rsq, dy*dy)

	g := polyAdd(polyAdd(sq1, sq2), polyNeg(rsqScaled))

	var rootsArr [MaxPolyDegree]float64
	n := SolvePoly(&ctx.poly, g, &rootsArr, true, 1e-6)
	best := math.Inf(1)
	bestS := 0.0
	found := false
	for i := 0; i < n; i++ {
		s := rootsArr[i]
		if s < 0 || s > 1 {
			continue
		}
		y := evalCubic(seg.Y, s)
		t := (y - py) / dy
		if t <= 1e-4 {
			continue
		}
		if t < best {
			best = t
			bestS = s
			found = true
		}
	}
	return best, bestS, found
}

func (l *Lathe) intersectHorizontal(seg LatheSegment, origin, dir Vector3) (float64, float64, bool) {
	// |Dy|~0: y is fixed along the ray, so the spline parameter s with
	// y(s)==origin.Y is fixed too (solve cubic), and for that s solve
	// the quadratic in t given r(s) fixed.
	yPoly := seg.Y
	yPoly[3] -= origin.Y
	var rootsArr [MaxPolyDegree]float64
	var scratch PolyScratch
	n := SolvePoly(&scratch, polyScaleAdd(yPoly, 1, 0), &rootsArr, false, 1e-9)
	best := math.Inf(1)
	bestS := 0.0
	found := false
	for i := 0; i < n; i++ {
		s := rootsArr[i]
		if s < 0 || s > 1 {
			continue
		}
		r := evalCubic(seg.R, s)
		a := dir.X*dir.X + dir.Z*dir.Z
		if a < 1e-15 {
			continue
		}
		b := 2 * (origin.X*dir.X + origin.Z*dir.Z)
		c := origin.X*origin.X + origin.Z*origin.Z - r*r
		disc := b*b - 4*a*c
		if disc < 0 {
			continue
		}
		sq := math.Sqrt(disc)
		for _, t := range []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
			if t <= 1e-4 {
				continue
			}
			if t < best {
				best = t
				bestS = s
				found = true
			}
		}
	}
	return best, bestS, found
}

// Normal evaluates dr/ds and dy/ds at the hit's stored s and rotates
// (dyds*cos(theta), -drds, dyds*sin(theta)) into world space, per
// spec.md 4.F.
func (l *Lathe) Normal(hit *Intersection) Vector3 {
	seg := l.Segments[hit.Int1]
	s := hit.Dbl1
	drds := evalCubicDeriv(seg.R, s)
	dyds := evalCubicDeriv(seg.Y, s)

	inv, ok := l.m.Inverse()
	var local Vector3
	if ok {
		local = inv.Apply(hit.Point)
	} else {
		local = hit.Point
	}
	theta := math.Atan2(local.Z, local.X)
	n := Vector3{
		X: dyds * math.Cos(theta),
		Y: -drds,
		Z: dyds * math.Sin(theta),
	}
	return l.m.ApplyVector(n).Normalize()
}

// UVCoord maps theta/2pi to u and the segment position to v, per
// spec.md 4.G-style convention shared with SOR.
func (l *Lathe) UVCoord(hit *Intersection) Vector2 {
	inv, ok := l.m.Inverse()
	local := hit.Point
	if ok {
		local = inv.Apply(hit.Point)
	}
	theta := math.Atan2(local.Z, local.X)
	u := theta / (2 * math.Pi)
	if u < 0 {
		u += 1
	}
	v := (hit.Dbl1 + float64(hit.Int1)) / float64(len(l.Segments))
	return Vector2{X: u, Y: v}
}

// Inside counts segments whose radius polynomial at p.y is at least the
// point's radius; an odd count means inside, xor'd with Inverted, per
// spec.md 4.F.
func (l *Lathe) Inside(ctx *RenderContext, p Vector3) bool {
	inv, ok := l.m.Inverse()
	local := p
	if ok {
		local = inv.Apply(p)
	}
	radius := math.Sqrt(local.X*local.X + local.Z*local.Z)
	count := 0
	for _, seg := range l.Segments {
		y0, y1 := evalCubic(seg.Y, 0), evalCubic(seg.Y, 1)
		lo, hi := y0, y1
		if lo > hi {
			lo, hi = hi, lo
		}
		if local.Y < lo || local.Y > hi {
			continue
		}
		s := solveYForS(seg.Y, local.Y)
		if s < 0 {
			continue
		}
		r := evalCubic(seg.R, s)
		if r >= radius {
			count++
		}
	}
	inside := count%2 == 1
	if l.Inverted {
		inside = !inside
	}
	return inside
}

// solveYForS inverts the monotone (on-segment) y(s) cubic for the
// given y value via bisection, returning -1 if no root in [0,1].
func solveYForS(y [4]float64, target float64) float64 {
	lo, hi := 0.0, 1.0
	fLo := evalCubic(y, lo) - target
	fHi := evalCubic(y, hi) - target
	if fLo == 0 {
		return lo
	}
	if fHi == 0 {
		return hi
	}
	if (fLo > 0) == (fHi > 0) {
		return -1
	}
	for i := 0; i < 60; i++ {
		mid := (lo + hi) / 2
		fMid := evalCubic(y, mid) - target
		if (fMid > 0) == (fLo > 0) {
			lo = mid
			fLo = fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

func (l *Lathe) Transform(m Matrix) { l.m = Compose(l.m, m) }
func (l *Lathe) Copy() Primitive {
	cp := *l
	return &cp
}
func (l *Lathe) ComputeBBox() BoundingBox {
	rmax := 0.0
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, seg := range l.Segments {
		_, rmx := latheExtrema(seg.R)
		ymn, ymx := latheExtrema(seg.Y)
		if rmx > rmax {
			rmax = rmx
		}
		if ymx > ymax {
			ymax = ymx
		}
		if ymn < ymin {
			ymin = ymn
		}
	}
	return BoundingBox{
		Min: Vector3{X: -rmax, Y: ymin, Z: -rmax},
		Max: Vector3{X: rmax, Y: ymax, Z: rmax},
	}
}

// --- small polynomial helpers over the constant-first coefficient
// convention used by poly.go (index 0 = constant term); LatheSegment
// stores A,B,C,D with A the cubic coefficient, so these helpers
// convert as they go. ---

// polyScaleAdd returns scale*cubic(s) + offset, expressed constant-first.
func polyScaleAdd(abcd [4]float64, scale, offset float64) []float64 {
	return []float64{abcd[3]*scale + offset, abcd[2] * scale, abcd[1] * scale, abcd[0] * scale}
}

// polyMul3 squares a cubic (constant-first, degree 3) to a degree-6 polynomial.
func polyMul3(p []float64) []float64 {
	return polyMulGeneric(p, p)
}

// polySquareCubic squares the A,B,C,D cubic representation (converted
// to constant-first) producing a degree-6 polynomial.
func polySquareCubic(abcd [4]float64) []float64 {
	p := []float64{abcd[3], abcd[2], abcd[1], abcd[0]}
	return polyMulGeneric(p, p)
}

func polyMulGeneric(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}
	return out
}

func polyAdd(a, b []float64) []float64 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]float64, n)
	copy(out, a)
	for i, v := range b {
		out[i] += v
	}
	return out
}

func polyNeg(a []float64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = -v
	}
	return out
}

func polyScale(a []float64, s float64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = v * s
	}
	return out
}
