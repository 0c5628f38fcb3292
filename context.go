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
	"math/rand"
	"sync"
)

// RenderContext is the explicit per-thread scratch block named in
// spec.md 5 and 9: every hot-path function that would otherwise reach
// for a global takes a *RenderContext as its first argument instead.
// A RenderContext must not be shared between goroutines; create one
// per render worker.
type RenderContext struct {
	Stats Stats
	Rng   *rand.Rand

	stackPool sync.Pool

	poly PolyScratch

	// bcylRint/bcylHint are the BCyl per-ray scratch arrays from
	// spec.md 3 ("Per-ray scratch: rint[Nr], hint[Nh]"); they are
	// grown lazily to the largest BCyl seen so far and never shrunk.
	bcylRint []bcylRootPair
	bcylHint []bcylRootPair
}

// NewRenderContext creates a RenderContext seeded with seed, suitable
// for one render worker goroutine.
func NewRenderContext(seed int64) *RenderContext {
	ctx := &RenderContext{
		Rng: rand.New(rand.NewSource(seed)),
	}
	ctx.stackPool.New = func() any {
		return make([]Intersection, 0, 16)
	}
	return ctx
}

func (ctx *RenderContext) bcylScratch(nr, nh int) ([]bcylRootPair, []bcylRootPair) {
	if cap(ctx.bcylRint) < nr {
		ctx.bcylRint = make([]bcylRootPair, nr)
	}
	if cap(ctx.bcylHint) < nh {
		ctx.bcylHint = make([]bcylRootPair, nh)
	}
	return ctx.bcylRint[:nr], ctx.bcylHint[:nh]
}
