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

// PatchStrategy selects how a Patch finds ray/subpatch intersections.
type PatchStrategy int

const (
	// StrategyRecursive subdivides at trace time.
	StrategyRecursive PatchStrategy = iota
	// StrategyPrecomputed walks a subdivision tree built at construction time.
	StrategyPrecomputed
)

// Patch is a bicubic Bezier patch: a 4x4 control net, optional
// (s,t) corner mapping, subdivision limits, and a flatness tolerance,
// per spec.md 3/4.E.
type Patch struct {
	Control  [4][4]Vector3
	UV       [4]Vector2 // corner (s,t) map, in order (0,0) (0,1) (1,1) (1,0)
	USteps   int
	VSteps   int
	Flatness float64
	Strategy PatchStrategy

	m    Matrix
	tree *patchNode // built by NewPatch for StrategyPrecomputed
}

// NewPatch validates the control net and constructs a Patch. When
// strategy is StrategyPrecomputed the subdivision tree is built
// immediately so that trace-time work is a pure walk, per spec.md 4.E.
func NewPatch(control [4][4]Vector3, uv [4]Vector2, uSteps, vSteps int, flatness float64, strategy PatchStrategy) (*Patch, error) {
	p := &Patch{
		Control:  control,
		UV:       uv,
		USteps:   uSteps,
		VSteps:   vSteps,
		Flatness: flatness,
		Strategy: strategy,
		m:        Identity,
	}
	if uSteps <= 0 || vSteps <= 0 {
		return nil, wrapf("NewPatch", ErrBadControlNet)
	}
	if strategy == StrategyPrecomputed {
		p.tree = p.subdivide(control, 0, 1, 0, 1, uSteps, vSteps)
	}
	return p, nil
}

// patchNode is a node of the subdivision tree: either an interior node
// with 2 or 4 children, or a leaf with triangulated corners and a
// bounding sphere, per spec.md 3.
type patchNode struct {
	center Vector3
	radius2 float64

	children []*patchNode // nil for leaves

	// leaf data
	isLeaf       bool
	v00, v01, v11, v10 Vector3
	u0, u1, v0, v1     float64
}

func boundingSphere(ctrl [4][4]Vector3) (Vector3, float64) {
	var sum Vector3
	n := 0
	for i := range ctrl {
		for j := range ctrl[i] {
			sum = sum.Add(ctrl[i][j])
			n++
		}
	}
	center := sum.Scale(1 / float64(n))
	r2 := 0.0
	for i := range ctrl {
		for j := range ctrl[i] {
			d := ctrl[i][j].Sub(center).LengthSqr()
			if d > r2 {
				r2 = d
			}
		}
	}
	return center, r2
}

// isFlat implements the planarity test of spec.md 4.E: the maximum
// distance of any control point from the plane through three
// non-degenerate corners must be below flatness.
func isFlat(ctrl [4][4]Vector3, flatness float64) bool {
	p0, p1, p2 := ctrl[0][0], ctrl[0][3], ctrl[3][0]
	e1 := p1.Sub(p0)
	e2 := p2.Sub(p0)
	n := e1.Cross(e2)
	nl := n.Length()
	if nl < 1e-12 {
		return true // degenerate: treat as flat, triangle test below will reject area~0 anyway
	}
	n = n.Scale(1 / nl)
	for i := range ctrl {
		for j := range ctrl[i] {
			d := math.Abs(ctrl[i][j].Sub(p0).Dot(n))
			if d > flatness {
				return false
			}
		}
	}
	return true
}

// deCasteljauSplitU splits a 4x4 control net at parameter 0.5 along u
// into two 4x4 nets, by repeated linear interpolation.
func deCasteljauSplitU(ctrl [4][4]Vector3) (lo, hi [4][4]Vector3) {
	for j := 0; j < 4; j++ {
		col := [4]Vector3{ctrl[0][j], ctrl[1][j], ctrl[2][j], ctrl[3][j]}
		l, h := splitBezier(col)
		for i := 0; i < 4; i++ {
			lo[i][j] = l[i]
			hi[i][j] = h[i]
		}
	}
	return
}

func deCasteljauSplitV(ctrl [4][4]Vector3) (lo, hi [4][4]Vector3) {
	for i := 0; i < 4; i++ {
		l, h := splitBezier(ctrl[i])
		lo[i] = l
		hi[i] = h
	}
	return
}

// splitBezier splits a cubic Bezier curve at t=0.5 into two cubic
// Beziers via de Casteljau's algorithm.
func splitBezier(p [4]Vector3) (lo, hi [4]Vector3) {
	ab := mid(p[0], p[1])
	bc := mid(p[1], p[2])
	cd := mid(p[2], p[3])
	abc := mid(ab, bc)
	bcd := mid(bc, cd)
	abcd := mid(abc, bcd)
	lo = [4]Vector3{p[0], ab, abc, abcd}
	hi = [4]Vector3{abcd, bcd, cd, p[3]}
	return
}

func mid(a, b Vector3) Vector3 { return a.Add(b).Scale(0.5) }

// subdivide builds the subdivision tree recursively: split along u,
// v, or both depending on remaining step budget, stopping to form a
// leaf once flat or step budget is exhausted.
func (p *Patch) subdivide(ctrl [4][4]Vector3, u0, u1, v0, v1 float64, uSteps, vSteps int) *patchNode {
	center, r2 := boundingSphere(ctrl)
	node := &patchNode{center: center, radius2: r2}

	flat := isFlat(ctrl, p.Flatness)
	if flat || (uSteps <= 0 && vSteps <= 0) {
		node.isLeaf = true
		node.v00, node.v10, node.v11, node.v01 = ctrl[0][0], ctrl[3][0], ctrl[3][3], ctrl[0][3]
		node.u0, node.u1, node.v0, node.v1 = u0, u1, v0, v1
		return node
	}

	switch {
	case uSteps > 0 && vSteps > 0:
		lo, hi := deCasteljauSplitU(ctrl)
		loLo, loHi := deCasteljauSplitV(lo)
		hiLo, hiHi := deCasteljauSplitV(hi)
		um := (u0 + u1) / 2
		vm := (v0 + v1) / 2
		node.children = []*patchNode{
			p.subdivide(loLo, u0, um, v0, vm, uSteps-1, vSteps-1),
			p.subdivide(loHi, u0, um, vm, v1, uSteps-1, vSteps-1),
			p.subdivide(hiLo, um, u1, v0, vm, uSteps-1, vSteps-1),
			p.subdivide(hiHi, um, u1, vm, v1, uSteps-1, vSteps-1),
		}
	case uSteps > 0:
		lo, hi := deCasteljauSplitU(ctrl)
		um := (u0 + u1) / 2
		node.children = []*patchNode{
			p.subdivide(lo, u0, um, v0, v1, uSteps-1, vSteps),
			p.subdivide(hi, um, u1, v0, v1, uSteps-1, vSteps),
		}
	default:
		lo, hi := deCasteljauSplitV(ctrl)
		vm := (v0 + v1) / 2
		node.children = []*patchNode{
			p.subdivide(lo, u0, u1, v0, vm, uSteps, vSteps-1),
			p.subdivide(hi, u0, u1, vm, v1, uSteps, vSteps-1),
		}
	}
	return node
}

// AllIntersections implements Primitive. Both strategies walk the
// same tree structure: StrategyPrecomputed was already built at
// construction time, StrategyRecursive builds (and discards) it
// per-ray.
func (p *Patch) AllIntersections(ctx *RenderContext, ray *Ray, stack *IntersectionStack) {
	obj := ray.TransformRaw(p.objToWorldInverse())
	tree := p.tree
	if p.Strategy == StrategyRecursive {
		tree = p.subdivide(p.Control, 0, 1, 0, 1, p.USteps, p.VSteps)
	}
	p.walk(tree, obj, stack)
}

func (p *Patch) objToWorldInverse() Matrix {
	inv, ok := p.m.Inverse()
	if !ok {
		return Identity
	}
	return inv
}

func (p *Patch) walk(node *patchNode, ray Ray, stack *IntersectionStack) {
	if node == nil {
		return
	}
	if !sphereHit(node.center, node.radius2, ray) {
		return
	}
	if !node.isLeaf {
		for _, c := range node.children {
			p.walk(c, ray, stack)
		}
		return
	}
	// triangulate (0,0)-(0,3)-(3,3) and (0,0)-(3,3)-(3,0) per spec.md 4.E
	n := stack.Len()
	p.intersectTriangle(node, node.v00, node.v01, node.v11, node.u0, node.v0, node.u0, node.v1, node.u1, node.v1, ray, stack)
	p.intersectTriangle(node, node.v00, node.v11, node.v10, node.u0, node.v0, node.u1, node.v1, node.u1, node.v0, ray, stack)
	// a hit on the shared diagonal is reported by both triangles; keep one
	if stack.Len() == n+2 && math.Abs(stack.At(n).Depth-stack.At(n+1).Depth) < 1e-9 {
		stack.Pop()
	}
}

func sphereHit(center Vector3, r2 float64, ray Ray) bool {
	oc := ray.Origin.Sub(center)
	a := ray.Direction.LengthSqr()
	if a < 1e-20 {
		return oc.LengthSqr() <= r2
	}
	b := oc.Dot(ray.Direction)
	c := oc.LengthSqr() - r2
	disc := b*b - a*c
	return disc >= 0
}

// intersectTriangle solves the ray/triangle system in the triangle's
// own affine basis, rejecting t <= 1e-5 and out-of-range barycentric
// coordinates, per spec.md 4.E.
func (p *Patch) intersectTriangle(node *patchNode, a, b, c Vector3, ua, va, ub, vb, uc, vc float64, ray Ray, stack *IntersectionStack) {
	e0 := b.Sub(a)
	e1 := c.Sub(a)
	pvec := ray.Direction.Cross(e1)
	det := e0.Dot(pvec)
	if math.Abs(det) < 1e-5*e0.Length()*e1.Length() {
		return // degenerate triangle
	}
	invDet := 1 / det
	tvec := ray.Origin.Sub(a)
	alpha := tvec.Dot(pvec) * invDet
	if alpha < 0 || alpha > 1 {
		return
	}
	qvec := tvec.Cross(e0)
	beta := ray.Direction.Dot(qvec) * invDet
	if beta < 0 || alpha+beta > 1 {
		return
	}
	t := e1.Dot(qvec) * invDet
	if t <= 1e-5 {
		return
	}

	uv := Vector2{
		X: (1-alpha-beta)*ua + alpha*ub + beta*uc,
		Y: (1-alpha-beta)*va + alpha*vb + beta*vc,
	}
	normal := p.analyticNormal(uv.X, uv.Y)

	worldPt := p.m.Apply(ray.At(t))

	stack.Push(Intersection{
		Depth:     t,
		Point:     worldPt,
		Object:    p,
		HasNormal: true,
		Normal:    p.m.ApplyVector(normal).Normalize(),
		HasUV:     true,
		UV:        p.patchUV(uv),
	})
}

// patchUV maps a leaf-local (u,v) to the patch's corner (s,t) mapping
// via bilinear interpolation, per spec.md 4.E.
func (p *Patch) patchUV(uv Vector2) Vector2 {
	top := Lerp2(p.UV[0], p.UV[3], uv.X)
	bot := Lerp2(p.UV[1], p.UV[2], uv.X)
	return Lerp2(top, bot, uv.Y)
}

// bernstein3 evaluates the cubic Bernstein basis at t.
func bernstein3(t float64) [4]float64 {
	omt := 1 - t
	return [4]float64{omt * omt * omt, 3 * omt * omt * t, 3 * omt * t * t, t * t * t}
}

func bernstein3Deriv(t float64) [4]float64 {
	omt := 1 - t
	return [4]float64{-3 * omt * omt, 3*omt*omt - 6*omt*t, 6*omt*t - 3*t*t, 3 * t * t}
}

// evaluate computes the surface point at (u,v) via the standard
// degree-3 Bernstein tensor product, per spec.md 4.E.
func (p *Patch) evaluate(u, v float64) Vector3 {
	bu := bernstein3(u)
	bv := bernstein3(v)
	var pt Vector3
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			pt = pt.Add(p.Control[i][j].Scale(bu[i] * bv[j]))
		}
	}
	return pt
}

// analyticNormal evaluates the parametric tangents at (u,v) and
// returns their cross product, normalized, falling back to +X if
// degenerate per spec.md 4.E.
func (p *Patch) analyticNormal(u, v float64) Vector3 {
	bu := bernstein3(u)
	bv := bernstein3(v)
	bud := bernstein3Deriv(u)
	bvd := bernstein3Deriv(v)

	var du, dv Vector3
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			du = du.Add(p.Control[i][j].Scale(bud[i] * bv[j]))
			dv = dv.Add(p.Control[i][j].Scale(bu[i] * bvd[j]))
		}
	}
	n := du.Cross(dv)
	if n.LengthSqr() < 1e-20 {
		return Vector3{X: 1}
	}
	return n.Normalize()
}

// Inside always returns false: a patch is an infinitely thin surface,
// per spec.md 4.E.
func (p *Patch) Inside(ctx *RenderContext, pt Vector3) bool { return false }

// Normal returns the precomputed normal carried on the hit.
func (p *Patch) Normal(hit *Intersection) Vector3 { return hit.Normal }

// UVCoord returns the precomputed uv carried on the hit.
func (p *Patch) UVCoord(hit *Intersection) Vector2 { return hit.UV }

func (p *Patch) Transform(m Matrix) { p.m = Compose(p.m, m) }

func (p *Patch) Copy() Primitive {
	cp := *p
	return &cp
}

func (p *Patch) ComputeBBox() BoundingBox {
	min := p.Control[0][0]
	max := p.Control[0][0]
	for i := range p.Control {
		for j := range p.Control[i] {
			c := p.Control[i][j]
			min = Vector3{X: minf(min.X, c.X), Y: minf(min.Y, c.Y), Z: minf(min.Z, c.Z)}
			max = Vector3{X: maxf(max.X, c.X), Y: maxf(max.Y, c.Y), Z: maxf(max.Z, c.Z)}
		}
	}
	return BoundingBox{Min: min, Max: max}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
