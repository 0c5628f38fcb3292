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

// SORHitKind classifies where on a closed SOR a hit landed, per
// spec.md 4.G.
type SORHitKind int

const (
	SORCurve SORHitKind = iota
	SORBase
	SORCap
)

// SORSegment is one piecewise segment of an SOR profile: r^2(y) = A
// y^3 + B y^2 + C y + D over [Y0,Y1], per spec.md 3/4.G.
type SORSegment struct {
	A, B, C, D float64
	Y0, Y1     float64
}

func (s SORSegment) r2At(y float64) float64 {
	return ((s.A*y+s.B)*y+s.C)*y + s.D
}

// SOR is a surface of revolution whose profile is a monotone-in-y
// r^2(y) cubic per segment, optionally closed with base/cap planes,
// per spec.md 3/4.G.
type SOR struct {
	Segments   []SORSegment
	Bound      *BCyl
	Closed     bool
	BaseRadius2 float64
	CapRadius2  float64

	m Matrix
}

// NewSOR builds an SOR from its per-segment cubic coefficients,
// constructing the shared BCyl from each segment's y-range and
// r-extrema (evaluated at the endpoints and any derivative root
// inside the interval), per spec.md 4.G.
func NewSOR(segments []SORSegment, closed bool, baseR2, capR2 float64) (*SOR, error) {
	if len(segments) == 0 {
		return nil, wrapf("NewSOR", ErrDegenerateProfile)
	}
	extents := make([]struct{ R1, R2, H1, H2 float64 }, len(segments))
	for i, seg := range segments {
		if seg.Y1 <= seg.Y0 {
			return nil, wrapf("NewSOR", ErrDegenerateProfile)
		}
		rmin, rmax := sorExtrema(seg)
		if rmin < 0 {
			rmin = 0
		}
		extents[i] = struct{ R1, R2, H1, H2 float64 }{
			R1: math.Sqrt(rmin), R2: math.Sqrt(rmax), H1: seg.Y0, H2: seg.Y1,
		}
	}
	return &SOR{
		Segments:    segments,
		Bound:       NewBCyl(extents),
		Closed:      closed,
		BaseRadius2: baseR2,
		CapRadius2:  capR2,
		m:           Identity,
	}, nil
}

func sorExtrema(seg SORSegment) (float64, float64) {
	vals := []float64{seg.r2At(seg.Y0), seg.r2At(seg.Y1)}
	a, b, c := 3 * seg.A, 2 * seg.B, seg.C
	if math.Abs(a) > 1e-15 {
		disc := b*b - 4*a*c
		if disc >= 0 {
			sq := math.Sqrt(disc)
			for _, y := range []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
				if y > seg.Y0 && y < seg.Y1 {
					vals = append(vals, seg.r2At(y))
				}
			}
		}
	} else if math.Abs(b) > 1e-15 {
		y := -c / b
		if y > seg.Y0 && y < seg.Y1 {
			vals = append(vals, seg.r2At(y))
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

// AllIntersections implements the SOR intersection algorithm: the
// polynomial to solve per segment is degree 3 in t (one fewer degree
// than lathe, since r^2 is already monotone-in-y within a segment),
// plus base/cap plane tests for closed SORs, per spec.md 4.G.
func (s *SOR) AllIntersections(ctx *RenderContext, ray *Ray, stack *IntersectionStack) {
	inv, ok := s.m.Inverse()
	if !ok {
		return
	}
	obj := ray.TransformRaw(inv)

	hits := s.Bound.Intersect(ctx, obj.Origin, obj.Direction)
	for _, h := range hits {
		seg := s.Segments[h.Segment]
		s.intersectSegmentCurve(ctx, seg, obj, stack)
	}
	if s.Closed {
		s.intersectPlane(obj, s.Segments[0].Y0, s.BaseRadius2, SORBase, stack)
		s.intersectPlane(obj, s.Segments[len(s.Segments)-1].Y1, s.CapRadius2, SORCap, stack)
	}
}

func (s *SOR) intersectSegmentCurve(ctx *RenderContext, seg SORSegment, obj Ray, stack *IntersectionStack) {
	px, py, pz := obj.Origin.X, obj.Origin.Y, obj.Origin.Z
	dx, dy, dz := obj.Direction.X, obj.Direction.Y, obj.Direction.Z

	// (px+t dx)^2+(pz+t dz)^2 = A(py+t dy)^3+B(py+t dy)^2+C(py+t dy)+D
	// expand both sides as polynomials in t (degree 2 left, degree 3 right).
	left := []float64{px*px + pz*pz, 2 * (px*dx + pz*dz), dx*dx + dz*dz}
	// y(t) = py + t dy, as a polynomial in t (constant-first)
	yOfT := []float64{py, dy}
	y2 := polyMulGeneric(yOfT, yOfT)
	y3 := polyMulGeneric(y2, yOfT)
	right := polyAdd(polyAdd(polyScale(y3, seg.A), polyScale(y2, seg.B)), polyAdd(polyScale(yOfT, seg.C), []float64{seg.D}))

	g := polyAdd(left, polyNeg(right))
	// g has degree <= 3 in t

	var rootsArr [MaxPolyDegree]float64
	n := SolvePoly(&ctx.poly, g, &rootsArr, false, 1e-4)
	for i := 0; i < n; i++ {
		t := rootsArr[i]
		y := py + t*dy
		if y < seg.Y0 || y > seg.Y1 {
			continue
		}
		objPt := obj.At(t)
		worldPt := s.m.Apply(objPt)
		stack.Push(Intersection{
			Depth:  t,
			Point:  worldPt,
			Object: s,
			Int1:   0, // SORCurve
			Dbl1:   y,
		})
	}
}

func (s *SOR) intersectPlane(obj Ray, y, radius2 float64, kind SORHitKind, stack *IntersectionStack) {
	if math.Abs(obj.Direction.Y) < 1e-12 {
		return
	}
	t := (y - obj.Origin.Y) / obj.Direction.Y
	if t <= 1e-4 {
		return
	}
	pt := obj.At(t)
	r2 := pt.X*pt.X + pt.Z*pt.Z
	if r2 > radius2 {
		return
	}
	stack.Push(Intersection{
		Depth:  t,
		Point:  s.m.Apply(pt),
		Object: s,
		Int1:   int(kind),
		Dbl1:   y,
	})
}

// Normal returns (Px,-0.5(3Ay^2+2By+C),Pz) for curve hits (before the
// object-to-world transform) or the plane normal for base/cap hits,
// per spec.md 4.G.
func (s *SOR) Normal(hit *Intersection) Vector3 {
	inv, ok := s.m.Inverse()
	local := hit.Point
	if ok {
		local = inv.Apply(hit.Point)
	}
	switch SORHitKind(hit.Int1) {
	case SORBase:
		return s.m.ApplyVector(Vector3{Y: -1}).Normalize()
	case SORCap:
		return s.m.ApplyVector(Vector3{Y: 1}).Normalize()
	default:
		seg := s.segmentForY(hit.Dbl1)
		dr2dy := 3*seg.A*hit.Dbl1*hit.Dbl1 + 2*seg.B*hit.Dbl1 + seg.C
		n := Vector3{X: local.X, Y: -0.5 * dr2dy, Z: local.Z}
		return s.m.ApplyVector(n).Normalize()
	}
}

func (s *SOR) segmentForY(y float64) SORSegment {
	for _, seg := range s.Segments {
		if y >= seg.Y0 && y <= seg.Y1 {
			return seg
		}
	}
	return s.Segments[0]
}

// UVCoord computes theta = atan2(z,x)/2pi and v = (d1+segment)/segments;
// base/cap hits bias v to -1/+1, per spec.md 4.G.
func (s *SOR) UVCoord(hit *Intersection) Vector2 {
	inv, ok := s.m.Inverse()
	local := hit.Point
	if ok {
		local = inv.Apply(hit.Point)
	}
	theta := math.Atan2(local.Z, local.X) / (2 * math.Pi)
	if theta < 0 {
		theta += 1
	}
	switch SORHitKind(hit.Int1) {
	case SORBase:
		return Vector2{X: theta, Y: -1}
	case SORCap:
		return Vector2{X: theta, Y: 1}
	default:
		segIdx := 0
		for i, seg := range s.Segments {
			if hit.Dbl1 >= seg.Y0 && hit.Dbl1 <= seg.Y1 {
				segIdx = i
				break
			}
		}
		d1 := (hit.Dbl1 - s.Segments[segIdx].Y0) / (s.Segments[segIdx].Y1 - s.Segments[segIdx].Y0)
		v := (d1 + float64(segIdx)) / float64(len(s.Segments))
		return Vector2{X: theta, Y: v}
	}
}

// Inside tests p against the SOR's closed volume: true when p.y lies
// within the profile's y-range and its radius is within the curve's
// r(y) there, per spec.md 8's closed-SOR invariant. The base and cap
// radii and the Closed flag are not consulted.
func (s *SOR) Inside(ctx *RenderContext, p Vector3) bool {
	inv, ok := s.m.Inverse()
	local := p
	if ok {
		local = inv.Apply(p)
	}
	y := local.Y
	radius2 := local.X*local.X + local.Z*local.Z

	if y < s.Segments[0].Y0 {
		return false
	}
	if y > s.Segments[len(s.Segments)-1].Y1 {
		return false
	}
	seg := s.segmentForY(y)
	return radius2 <= seg.r2At(y)
}

func (s *SOR) Transform(m Matrix) { s.m = Compose(s.m, m) }
func (s *SOR) Copy() Primitive {
	cp := *s
	return &cp
}
func (s *SOR) ComputeBBox() BoundingBox {
	rmax := 0.0
	for _, seg := range s.Segments {
		_, rmx := sorExtrema(seg)
		if math.Sqrt(rmx) > rmax {
			rmax = math.Sqrt(rmx)
		}
	}
	return BoundingBox{
		Min: Vector3{X: -rmax, Y: s.Segments[0].Y0, Z: -rmax},
		Max: Vector3{X: rmax, Y: s.Segments[len(s.Segments)-1].Y1, Z: rmax},
	}
}
