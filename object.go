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

// BoundingBox is an axis-aligned box in object space.
type BoundingBox struct {
	Min, Max Vector3
}

// Primitive is the capability set every geometric object implements,
// per spec.md 4.J: a sealed set of concrete kinds (Patch, Lathe, SOR)
// plus composite wrappers (Bound, Clip) sharing the same interface,
// replacing the original's type-tag/union-of-pointers hierarchy per
// spec.md 9.
type Primitive interface {
	AllIntersections(ctx *RenderContext, ray *Ray, stack *IntersectionStack)
	Inside(ctx *RenderContext, p Vector3) bool
	Normal(hit *Intersection) Vector3
	UVCoord(hit *Intersection) Vector2
	Transform(m Matrix)
	Copy() Primitive
	ComputeBBox() BoundingBox
}

// RayInBound reports whether ray should be traced against bound at
// all: either the ray hits bound's own intersections, or its origin
// already lies inside it, per spec.md 4.J.
func RayInBound(ctx *RenderContext, bound Primitive, ray *Ray) bool {
	if bound.Inside(ctx, ray.Origin) {
		return true
	}
	s := ctx.Open()
	defer ctx.Close(s)
	bound.AllIntersections(ctx, ray, s)
	return s.Len() > 0
}

// Bound is a composite object: its child is only traced when
// RayInBound holds for the bounding primitive, per spec.md 4.J.
type Bound struct {
	Child     Primitive
	Enclosure Primitive
}

func (b *Bound) AllIntersections(ctx *RenderContext, ray *Ray, stack *IntersectionStack) {
	if !RayInBound(ctx, b.Enclosure, ray) {
		return
	}
	b.Child.AllIntersections(ctx, ray, stack)
}

func (b *Bound) Inside(ctx *RenderContext, p Vector3) bool { return b.Child.Inside(ctx, p) }
func (b *Bound) Normal(hit *Intersection) Vector3          { return hit.Object.Normal(hit) }
func (b *Bound) UVCoord(hit *Intersection) Vector2         { return hit.Object.UVCoord(hit) }
func (b *Bound) Transform(m Matrix) {
	b.Child.Transform(m)
	b.Enclosure.Transform(m)
}
func (b *Bound) Copy() Primitive {
	return &Bound{Child: b.Child.Copy(), Enclosure: b.Enclosure.Copy()}
}
func (b *Bound) ComputeBBox() BoundingBox { return b.Child.ComputeBBox() }

// Clip is a composite object: a hit on Child only survives if every
// clip primitive's Inside returns true for the hit point, per
// spec.md 4.J.
type Clip struct {
	Child     Primitive
	ClipAgainst []Primitive
}

func (c *Clip) AllIntersections(ctx *RenderContext, ray *Ray, stack *IntersectionStack) {
	inner := ctx.Open()
	defer ctx.Close(inner)
	c.Child.AllIntersections(ctx, ray, inner)
	for _, hit := range inner.All() {
		if c.insideAllClips(ctx, hit.Point) {
			stack.Push(hit)
		}
	}
}

func (c *Clip) insideAllClips(ctx *RenderContext, p Vector3) bool {
	for _, clip := range c.ClipAgainst {
		if !clip.Inside(ctx, p) {
			return false
		}
	}
	return true
}

func (c *Clip) Inside(ctx *RenderContext, p Vector3) bool {
	return c.Child.Inside(ctx, p) && c.insideAllClips(ctx, p)
}
func (c *Clip) Normal(hit *Intersection) Vector3  { return hit.Object.Normal(hit) }
func (c *Clip) UVCoord(hit *Intersection) Vector2 { return hit.Object.UVCoord(hit) }
func (c *Clip) Transform(m Matrix) {
	c.Child.Transform(m)
	for _, clip := range c.ClipAgainst {
		clip.Transform(m)
	}
}
func (c *Clip) Copy() Primitive {
	cp := &Clip{Child: c.Child.Copy(), ClipAgainst: make([]Primitive, len(c.ClipAgainst))}
	for i, p := range c.ClipAgainst {
		cp.ClipAgainst[i] = p.Copy()
	}
	return cp
}
func (c *Clip) ComputeBBox() BoundingBox { return c.Child.ComputeBBox() }
