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

import (
	"log"
	"math"
	"sort"
)

// BCylSegment is one segment of a bounding cylinder, indexing into
// the shared deduplicated radius-squared and height tables rather
// than storing its own bounds, per spec.md 3.
type BCylSegment struct {
	r1, r2 int // indices into Radius2
	h1, h2 int // indices into Height
}

// BCyl is the bounding-cylinder acceleration structure shared by
// lathe and SOR: an array of segments over two deduplicated tables of
// squared radii and heights.
type BCyl struct {
	Radius2  []float64 // stored squared, deduplicated, in first-seen order
	Height   []float64 // deduplicated, in first-seen order
	Segments []BCylSegment
}

// bcylRootPair is a single ray/plane or ray/cylinder root: a parametric
// distance and the companion value (radius^2 at a height root, or
// height at a radius root).
type bcylRootPair struct {
	t0, t1         float64
	y0, y1         float64 // height at each cylinder root (rint only)
	n              int     // number of valid roots (0, 1, or 2)
}

// NewBCyl builds the shared radius/height tables by deduplicating the
// given per-segment extents (O(N^2), acceptable per spec.md 4.D since
// N is a profile length, not a scene size) and returns the segment
// table indexing into them.
func NewBCyl(extents []struct{ R1, R2, H1, H2 float64 }) *BCyl {
	b := &BCyl{}
	for _, e := range extents {
		r1, r2 := e.R1*e.R1, e.R2*e.R2
		if r1 > r2 {
			r1, r2 = r2, r1
		}
		h1, h2 := e.H1, e.H2
		if h1 > h2 {
			h1, h2 = h2, h1
		}
		seg := BCylSegment{
			r1: b.dedupRadius(r1),
			r2: b.dedupRadius(r2),
			h1: b.dedupHeight(h1),
			h2: b.dedupHeight(h2),
		}
		b.Segments = append(b.Segments, seg)
	}
	return b
}

func (b *BCyl) dedupRadius(r2 float64) int {
	for i, v := range b.Radius2 {
		if v == r2 {
			return i
		}
	}
	b.Radius2 = append(b.Radius2, r2)
	return len(b.Radius2) - 1
}

func (b *BCyl) dedupHeight(h float64) int {
	for i, v := range b.Height {
		if v == h {
			return i
		}
	}
	b.Height = append(b.Height, h)
	return len(b.Height) - 1
}

// BCylHit is one candidate segment returned by Intersect: the
// segment's index and its entry depth along the ray.
type BCylHit struct {
	Segment int
	Entry   float64
}

// Intersect runs the five-step algorithm of spec.md 4.D: intersect the
// ray with every unique height plane and every unique cylinder radius
// exactly once (cached in ctx's per-thread rint/hint scratch so each
// disc/cylinder surface is tested once per ray regardless of segment
// count), then gather and sort per-segment candidates from those
// cached roots, returning a depth-sorted list of candidate segments.
func (b *BCyl) Intersect(ctx *RenderContext, origin, dir Vector3) []BCylHit {
	rint, hint := ctx.bcylScratch(len(b.Radius2), len(b.Height))

	// Step 1: ray/plane intersection for each unique height.
	for i, h := range b.Height {
		if math.Abs(dir.Y) < 1e-12 {
			hint[i] = bcylRootPair{}
			continue
		}
		t := (h - origin.Y) / dir.Y
		x := origin.X + t*dir.X
		z := origin.Z + t*dir.Z
		hint[i] = bcylRootPair{t0: t, y0: x*x + z*z, n: 1}
	}

	// Step 2: ray/infinite-cylinder intersection for each unique radius^2.
	a := dir.X*dir.X + dir.Z*dir.Z
	bVal := 2 * (origin.X*dir.X + origin.Z*dir.Z)
	for i, r2 := range b.Radius2 {
		if a < 1e-12 {
			rint[i] = bcylRootPair{}
			continue
		}
		c := origin.X*origin.X + origin.Z*origin.Z - r2
		disc := bVal*bVal - 4*a*c
		if disc < 0 {
			rint[i] = bcylRootPair{}
			continue
		}
		sq := math.Sqrt(disc)
		t0 := (-bVal - sq) / (2 * a)
		t1 := (-bVal + sq) / (2 * a)
		rint[i] = bcylRootPair{
			t0: t0, y0: origin.Y + t0*dir.Y,
			t1: t1, y1: origin.Y + t1*dir.Y,
			n: 2,
		}
	}

	var out []BCylHit
	for idx, seg := range b.Segments {
		entry, hit := b.intersectSegment(ctx, rint, hint, seg)
		if hit {
			out = append(out, BCylHit{Segment: idx, Entry: entry})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Entry < out[j].Entry })
	return out
}

// intersectSegment gathers the candidate boundary crossings for one
// segment from the ray-wide cached roots (its two radius roots if
// within the height range, its two height-plane roots if within the
// radius range) and classifies the segment as entered by the parity
// of the crossing count, per spec.md 4.D step 4. An odd count is
// spec.md 9's documented numerical-degeneracy fallback: treat the ray
// as always inside and emit a sentinel interval starting at the first
// hit, logging a warning so the degeneracy can be diagnosed (open
// question, spec.md 9: preserved intentionally, not a bug to fix).
func (b *BCyl) intersectSegment(ctx *RenderContext, rint, hint []bcylRootPair, seg BCylSegment) (float64, bool) {
	r1sq, r2sq := b.Radius2[seg.r1], b.Radius2[seg.r2]
	h1, h2 := b.Height[seg.h1], b.Height[seg.h2]

	var crossings []float64

	for _, ridx := range []int{seg.r1, seg.r2} {
		rr := rint[ridx]
		if rr.n < 2 {
			continue
		}
		if rr.y0 >= h1 && rr.y0 <= h2 {
			crossings = append(crossings, rr.t0)
		}
		if rr.y1 >= h1 && rr.y1 <= h2 {
			crossings = append(crossings, rr.t1)
		}
	}

	for _, hidx := range []int{seg.h1, seg.h2} {
		hh := hint[hidx]
		if hh.n < 1 {
			continue
		}
		if hh.y0 >= r1sq && hh.y0 <= r2sq {
			crossings = append(crossings, hh.t0)
		}
	}

	if len(crossings) == 0 {
		return 0, false
	}
	sort.Float64s(crossings)

	if len(crossings)%2 != 0 {
		ctx.Stats.BCylOddFallback++
		log.Printf("tracer: BCyl segment saw an odd number of boundary crossings (%d); assuming ray starts inside", len(crossings))
		return crossings[0], true
	}
	if crossings[len(crossings)-1] < 0 {
		// every boundary crossing lies behind the ray origin
		return 0, false
	}
	return crossings[0], true
}
