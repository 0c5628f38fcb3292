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

// Object binds a primitive to the shading data the core's pipeline
// needs: a flat base colour standing in for pigment evaluation (out
// of scope per spec.md overview), and the Interior describing what
// lies inside it, if anything. Colour pattern/texture chains are the
// frontend's responsibility.
type Object struct {
	Primitive  Primitive
	Interior   *Interior // nil: opaque, no refraction or media
	Colour     Colour3
	Ambient    float64
	Diffuse    float64
	Reflection float64
}

// Scene is the immutable parser-to-core handoff of spec.md 6: a
// read-only object tree, light list, camera, and global settings. It
// is safe to share across render workers without synchronisation
// (spec.md 5).
type Scene struct {
	Objects       []Object
	Lights        []Light
	Camera        Camera
	Background    Colour3
	MaxTraceLevel int
}

const defaultMaxTraceLevel = 5

func (s *Scene) maxTraceLevel() int {
	if s.MaxTraceLevel <= 0 {
		return defaultMaxTraceLevel
	}
	return s.MaxTraceLevel
}

// nearestHit intersects ray against every object in the scene and
// returns the object and intersection with the smallest positive
// depth, consulting each primitive through the common J dispatch.
func (s *Scene) nearestHit(ctx *RenderContext, ray *Ray) (*Object, Intersection, bool) {
	stack := ctx.Open()
	defer ctx.Close(stack)

	var bestObj *Object
	var best Intersection
	bestDepth := math.Inf(1)
	for i := range s.Objects {
		obj := &s.Objects[i]
		stack.Reset()
		obj.Primitive.AllIntersections(ctx, ray, stack)
		for _, hit := range stack.All() {
			if hit.Depth > 1e-6 && hit.Depth < bestDepth {
				bestDepth = hit.Depth
				best = hit
				bestObj = obj
			}
		}
	}
	return bestObj, best, bestObj != nil
}

// sceneShadow adapts a Scene plus the calling worker's RenderContext
// to the ShadowTester interface. Each tile is rendered by exactly one
// goroutine against its own RenderContext, so a short-lived
// sceneShadow created per Trace call carries no state that is shared
// across goroutines.
type sceneShadow struct {
	*Scene
	ctx *RenderContext
}

// Test implements ShadowTester by tracing a ray from origin toward
// direction and returning the distance to the nearest blocker (or
// +Inf when nothing is hit, which the caller treats as unshadowed)
// along with a colour: black for an opaque blocker, white otherwise.
// The shadow ray starts with an empty nested-interior list, so no
// media attenuation is applied to that colour. Re-entrancy (spec.md 6)
// holds because Test closes over no state beyond its receiver's ctx.
func (s *sceneShadow) Test(light Light, origin, direction Vector3) (float64, Colour3) {
	ray := NewRay(origin, direction)
	obj, hit, ok := s.nearestHit(s.ctx, &ray)

	colour := Colour3{R: 1, G: 1, B: 1}
	dist := math.Inf(1)
	if ok {
		dist = hit.Depth
		if obj.Interior == nil {
			return dist, Colour3{}
		}
	}
	if inner, has := ray.Innermost(); has && len(inner.Media) > 0 {
		colour = Integrate(s.ctx, inner.Media, s.Lights, ray, dist, colour, true, s)
	}
	return dist, colour
}

// Trace computes the colour seen along ray, recursing for reflection
// and refraction up to the scene's configured trace depth, then
// folding in participating-media contribution along the final
// segment via Integrate.
func (s *Scene) Trace(ctx *RenderContext, ray Ray, depth int) Colour3 {
	ctx.Stats.Rays++
	if depth > s.maxTraceLevel() {
		ctx.Stats.TraceDepthCapped++
		return s.Background
	}

	shadow := &sceneShadow{Scene: s, ctx: ctx}
	obj, hit, ok := s.nearestHit(ctx, &ray)
	if !ok {
		return s.applyMedia(ctx, shadow, ray, math.Inf(1), s.Background)
	}

	n := obj.Primitive.Normal(&hit)
	if n.Dot(ray.Direction) > 0 {
		n = n.Neg()
	}

	colour := obj.Colour.Scale(obj.Ambient)
	for _, light := range s.Lights {
		lightDir := light.DirectionFrom(hit.Point)
		diff := n.Dot(lightDir)
		if diff <= 0 {
			continue
		}
		shadowOrigin := hit.Point.Add(n.Scale(1e-4))
		_, atten := shadow.Test(light, shadowOrigin, lightDir)
		colour = colour.Add(obj.Colour.Scale(obj.Diffuse * diff).Mul(light.Colour()).Mul(atten))
	}

	if obj.Reflection > 0 && depth < s.maxTraceLevel() {
		reflDir := ray.Direction.Sub(n.Scale(2 * ray.Direction.Dot(n)))
		reflRay := NewRay(hit.Point.Add(n.Scale(1e-4)), reflDir)
		reflRay.nested = ray.nested
		reflected := s.Trace(ctx, reflRay, depth+1)
		colour = colour.Add(reflected.Scale(obj.Reflection))
	}

	if obj.Interior != nil && obj.Interior.IOR > 0 && depth < s.maxTraceLevel() {
		if refrColour, ok := s.refract(ctx, ray, hit, n, obj, depth); ok {
			colour = colour.Add(refrColour)
		}
	}

	return s.applyMedia(ctx, shadow, ray, hit.Depth, colour)
}

// applyMedia folds the contribution of the innermost interior's media
// along [0,dist] into colour, matching the media hook in spec.md 2's
// data-flow summary ("shading code ... consults H/I to attenuate/emit
// along each segment").
func (s *Scene) applyMedia(ctx *RenderContext, shadow ShadowTester, ray Ray, dist float64, colour Colour3) Colour3 {
	inner, has := ray.Innermost()
	if !has || len(inner.Media) == 0 {
		return colour
	}
	if math.IsInf(dist, 1) {
		return colour
	}
	return Integrate(ctx, inner.Media, s.Lights, ray, dist, colour, false, shadow)
}

// refract computes the Snell's-law transmitted ray at hit, entering
// or leaving obj's interior, and recurses; total internal reflection
// yields ok=false so the caller adds no refracted contribution beyond
// what the reflection term above already captured.
func (s *Scene) refract(ctx *RenderContext, ray Ray, hit Intersection, n Vector3, obj *Object, depth int) (Colour3, bool) {
	// Trace has already turned n to face the incoming ray, so whether
	// the ray enters or leaves is read from its nested-interior list.
	_, inside := ray.Contains(obj.Interior)
	entering := !inside
	n1, n2 := 1.0, obj.Interior.IOR
	if innermost, has := ray.Innermost(); has {
		n1 = innermost.IOR
	}
	normal := n
	if !entering {
		n1, n2 = obj.Interior.IOR, 1.0
	}

	eta := n1 / n2
	cosI := -normal.Dot(ray.Direction)
	sin2T := eta * eta * (1 - cosI*cosI)
	if sin2T > 1 {
		return Colour3{}, false // total internal reflection
	}
	cosT := math.Sqrt(1 - sin2T)
	refrDir := ray.Direction.Scale(eta).Add(normal.Scale(eta*cosI - cosT))

	refrRay := NewRay(hit.Point.Sub(normal.Scale(1e-4)), refrDir)
	refrRay.nested = append([]*Interior(nil), ray.nested...)
	if entering {
		// Rendering treats interiors as read-only (spec.md 9): alias the
		// shared pointer directly rather than bumping its refcount, which
		// is mutated only during single-threaded parse/compose.
		if err := refrRay.Enter(obj.Interior); err != nil {
			ctx.Stats.RefractionAborted++
			return Colour3{}, false
		}
	} else if idx, has := refrRay.Contains(obj.Interior); has {
		if err := refrRay.Exit(idx); err != nil {
			ctx.Stats.RefractionAborted++
			return Colour3{}, false
		}
	}
	return s.Trace(ctx, refrRay, depth+1), true
}
